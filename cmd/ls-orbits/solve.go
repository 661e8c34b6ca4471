package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-orbits/internal/kepler"
)

var keplerCmd = &cobra.Command{
	Use:   "kepler <e> <M>",
	Short: "Solve Kepler's equation for an elliptic orbit",
	Long:  "Solves E - e*sin(E) = M for eccentricity e in [0, 1) and mean anomaly M in degrees.",
	Args:  cobra.ExactArgs(2),
	RunE:  runKepler,
}

var barkerCmd = &cobra.Command{
	Use:   "barker <q> <e> <t>",
	Short: "Solve Barker's equation for a near-parabolic or hyperbolic orbit",
	Long: `Computes the true anomaly and heliocentric distance t days after
perihelion for perihelion distance q (AU) and eccentricity e.`,
	Args: cobra.ExactArgs(3),
	RunE: runBarker,
}

func init() {
	rootCmd.AddCommand(keplerCmd, barkerCmd)
}

type keplerSolution struct {
	Eccentricity     float64 `json:"e"`
	MeanAnomaly      float64 `json:"mean_anomaly_deg"`
	EccentricAnomaly float64 `json:"eccentric_anomaly_deg"`
	TrueAnomaly      float64 `json:"true_anomaly_deg"`
	Converged        bool    `json:"converged"`
}

type barkerSolution struct {
	Perihelion   float64 `json:"q_au"`
	Eccentricity float64 `json:"e"`
	Days         float64 `json:"t_days"`
	TrueAnomaly  float64 `json:"true_anomaly_deg"`
	Radius       float64 `json:"radius_au"`
	Converged    bool    `json:"converged"`
}

func parseFloats(args []string, names ...string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", names[i], a)
		}
		out[i] = v
	}
	return out, nil
}

func runKepler(cmd *cobra.Command, args []string) error {
	v, err := parseFloats(args, "eccentricity", "mean anomaly")
	if err != nil {
		return err
	}
	e, m := v[0], v[1]
	if e < 0 || e >= 1 {
		return fmt.Errorf("eccentricity %v outside [0, 1)", e)
	}

	E, ok := kepler.SolveKepler(e, m)
	sol := keplerSolution{
		Eccentricity:     e,
		MeanAnomaly:      m,
		EccentricAnomaly: E,
		TrueAnomaly:      kepler.TrueAnomaly(e, E),
		Converged:        ok,
	}
	return output(cmd, sol, func(w io.Writer) {
		fmt.Fprintf(w, "E  = %.9f°\n", sol.EccentricAnomaly)
		fmt.Fprintf(w, "ν  = %.9f°\n", sol.TrueAnomaly)
		if !sol.Converged {
			fmt.Fprintln(w, "warning: iteration did not converge")
		}
	})
}

func runBarker(cmd *cobra.Command, args []string) error {
	v, err := parseFloats(args, "perihelion distance", "eccentricity", "time")
	if err != nil {
		return err
	}
	q, e, t := v[0], v[1], v[2]
	if q <= 0 {
		return fmt.Errorf("perihelion distance %v must be positive", q)
	}
	if e <= 0 {
		return fmt.Errorf("eccentricity %v must be positive", e)
	}

	nu, ok := kepler.HyperbolicTrueAnomaly(q, e, t)
	sol := barkerSolution{
		Perihelion:   q,
		Eccentricity: e,
		Days:         t,
		TrueAnomaly:  nu,
		Radius:       kepler.ConicRadius(q, e, nu),
		Converged:    ok,
	}
	return output(cmd, sol, func(w io.Writer) {
		fmt.Fprintf(w, "ν  = %.6f°\n", sol.TrueAnomaly)
		fmt.Fprintf(w, "r  = %.6f AU\n", sol.Radius)
		if !sol.Converged {
			fmt.Fprintln(w, "warning: series did not converge")
		}
	})
}
