package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/catalog"
	"github.com/litescript/ls-orbits/internal/config"
	"github.com/litescript/ls-orbits/internal/logging"
	"github.com/litescript/ls-orbits/internal/report"
)

var rootCmd = &cobra.Command{
	Use:   "ls-orbits",
	Short: "Positions and rise/transit/set times for solar system bodies",
	Long: `ls-orbits computes apparent positions of planets, asteroids and comets
from their orbital elements, and when they rise, transit and set for an
observer on Earth.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// pflagKeys maps persistent flags to the config keys they override.
var pflagKeys = map[string]string{
	"site":       "observer.site",
	"lat":        "observer.lat",
	"lon":        "observer.lon",
	"horizon":    "horizon",
	"catalog":    "catalog",
	"log-level":  "log.level",
	"log-format": "log.format",
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .ls-orbits.toml)")
	pf.String("site", "", "named observing site (greenwich, boston, goldstone, canberra, madrid)")
	pf.Float64("lat", 0, "observer latitude in degrees, north positive")
	pf.Float64("lon", 0, "observer longitude in degrees, east positive")
	pf.Float64("horizon", 0, "horizon altitude in degrees (default -0.5667)")
	pf.String("catalog", "", "catalog file (default built-in)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	pf.Bool("json", false, "write JSON instead of a table")
	pf.String("time", "", "query instant in RFC 3339 (default now)")
	pf.Float64("jd", 0, "query instant as a Julian Date; wins over --time")
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".ls-orbits")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	config.SetDefaults()
	config.BindEnv()

	pf := rootCmd.PersistentFlags()
	for name, key := range pflagKeys {
		_ = viper.BindPFlag(key, pf.Lookup(name))
	}
	// Coordinates given on the command line replace any configured site.
	if (pf.Changed("lat") || pf.Changed("lon")) && !pf.Changed("site") {
		viper.Set("observer.site", "")
	}

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// env is what every command needs after configuration is resolved.
type env struct {
	cfg      config.Config
	log      *logging.Logger
	catalog  *catalog.Catalog
	observer astro.Observer
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.NewWithFormat(logging.ParseLevel(cfg.Log.Level), logging.ParseFormat(cfg.Log.Format))

	cat, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	obs, err := cfg.ObserverLocation()
	if err != nil {
		return nil, err
	}
	log.Debug("configuration loaded",
		"config", viper.ConfigFileUsed(), "observer", obs.Name, "bodies", cat.Len())
	return &env{cfg: cfg, log: log, catalog: cat, observer: obs}, nil
}

// queryJD returns the instant selected by --jd or --time, or now.
func queryJD(cmd *cobra.Command, now time.Time) (float64, error) {
	flags := cmd.Flags()
	if flags.Changed("jd") {
		jd, err := flags.GetFloat64("jd")
		if err != nil {
			return 0, fmt.Errorf("parsing --jd: %w", err)
		}
		if math.IsNaN(jd) || math.IsInf(jd, 0) {
			return 0, fmt.Errorf("--jd %v is not a finite Julian Date", jd)
		}
		return jd, nil
	}
	if s, _ := flags.GetString("time"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return 0, fmt.Errorf("parsing --time: %w", err)
		}
		return astro.JulianDate(t), nil
	}
	return astro.JulianDate(now), nil
}

// selectBodies returns the named bodies, or the whole catalog when names
// is empty.
func selectBodies(cat *catalog.Catalog, names []string) ([]catalog.Body, error) {
	if len(names) == 0 {
		return cat.Bodies(), nil
	}
	bodies := make([]catalog.Body, 0, len(names))
	for _, name := range names {
		b, err := cat.Get(name)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// output writes v as JSON when --json is set and calls table otherwise.
func output(cmd *cobra.Command, v any, table func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return report.WriteJSON(w, v)
	}
	table(w)
	return nil
}
