package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/report"
	"github.com/litescript/ls-orbits/internal/rst"
)

var positionCmd = &cobra.Command{
	Use:   "position [body...]",
	Short: "Show apparent positions",
	Long:  "Shows right ascension, declination, altitude, azimuth and distances for the named bodies, or for the whole catalog.",
	RunE:  runPosition,
}

var rstCmd = &cobra.Command{
	Use:   "rst [body...]",
	Short: "Show rise, transit and set times for the day of the query",
	RunE:  runRST,
}

var nextCmd = &cobra.Command{
	Use:   "next [body...]",
	Short: "Show the next rise, transit and set after the query instant",
	Long: `Searches forward from the query instant, one UT day at a time, until
all three events have been found or --days days have been searched.`,
	RunE: runNext,
}

var planCmd = &cobra.Command{
	Use:   "plan <body>",
	Short: "List passes of a body over several days",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

func init() {
	nextCmd.Flags().Int("days", 0, "days to search ahead (default day_limit)")
	planCmd.Flags().Int("days", 7, "number of days to plan")

	rootCmd.AddCommand(positionCmd, rstCmd, nextCmd, planCmd)
}

func runPosition(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	jd, err := queryJD(cmd, time.Now())
	if err != nil {
		return err
	}
	bodies, err := selectBodies(e.catalog, args)
	if err != nil {
		return err
	}

	positions := make([]report.PositionExport, 0, len(bodies))
	for _, b := range bodies {
		positions = append(positions, report.ExportPosition(b, e.observer, jd))
	}
	return output(cmd, positions, func(w io.Writer) {
		report.WritePositionTable(w, positions)
	})
}

func runRST(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	jd, err := queryJD(cmd, time.Now())
	if err != nil {
		return err
	}
	bodies, err := selectBodies(e.catalog, args)
	if err != nil {
		return err
	}

	results := make([]report.RSTExport, 0, len(bodies))
	for _, b := range bodies {
		res := b.RST(jd, e.observer, e.cfg.Horizon)
		results = append(results, report.ExportRST(b.Name, e.observer, e.cfg.Horizon, jd, res))
	}
	return output(cmd, results, func(w io.Writer) {
		report.WriteRSTTable(w, results)
	})
}

func runNext(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	jd, err := queryJD(cmd, time.Now())
	if err != nil {
		return err
	}
	bodies, err := selectBodies(e.catalog, args)
	if err != nil {
		return err
	}

	days := e.cfg.DayLimit
	if cmd.Flags().Changed("days") {
		days, _ = cmd.Flags().GetInt("days")
	}
	if days < 1 || days > rst.MaxDayLimit {
		return fmt.Errorf("--days %d outside [1, %d]", days, rst.MaxDayLimit)
	}

	results := make([]report.RSTExport, 0, len(bodies))
	for _, b := range bodies {
		res := b.NextRST(jd, e.observer, e.cfg.Horizon, days)
		results = append(results, report.ExportRST(b.Name, e.observer, e.cfg.Horizon, jd, res))
	}
	e.log.Debug("next events searched", "bodies", len(bodies), "days", days)
	return output(cmd, results, func(w io.Writer) {
		report.WriteRSTTable(w, results)
	})
}

func runPlan(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	jd, err := queryJD(cmd, time.Now())
	if err != nil {
		return err
	}
	body, err := e.catalog.Get(args[0])
	if err != nil {
		return err
	}

	days, _ := cmd.Flags().GetInt("days")
	if days < 1 || days > rst.MaxPlanDays {
		return fmt.Errorf("--days %d outside [1, %d]", days, rst.MaxPlanDays)
	}

	// Passes are classified against the query instant so that a plan for
	// --time behaves as if run at that moment.
	plan := rst.ComputePlan(body.Name, body, e.observer, e.cfg.Horizon, jd, days, jd)
	e.log.Debug("plan computed",
		"body", body.Name, "passes", len(plan.Passes), "start", astro.TimeFromJD(plan.Start))

	out := report.ExportPlan(plan)
	return output(cmd, out, func(w io.Writer) {
		report.WritePlanTable(w, out)
	})
}
