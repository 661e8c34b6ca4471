package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/litescript/ls-orbits/internal/catalog"
	"github.com/litescript/ls-orbits/internal/logging"
	"github.com/litescript/ls-orbits/internal/metrics"
	"github.com/litescript/ls-orbits/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Serves positions, rise/transit/set times and plans over HTTP, with
Prometheus metrics on /metrics. With --watch the catalog file is reloaded
whenever it changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("watch", false, "reload the catalog file when it changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("watch_catalog", cmd.Flags().Lookup("watch"))

	e, err := loadEnv()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}
	m.SetCatalogBodies(e.catalog.Len())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if e.cfg.WatchCatalog {
		w, err := startWatcher(e.cfg.Catalog, e.catalog, e.log)
		if err != nil {
			return err
		}
		defer w.Stop()
		go recordReloads(ctx, w, m)
	}

	srv := server.New(server.Options{
		Catalog:   e.catalog,
		Observer:  e.observer,
		Horizon:   e.cfg.Horizon,
		DayLimit:  e.cfg.DayLimit,
		RateLimit: e.cfg.Server.RateLimit,
		Burst:     e.cfg.Server.Burst,
		Logger:    e.log.With("component", "server"),
		Metrics:   m,
	})
	return srv.ListenAndServe(ctx, e.cfg.Server.Addr)
}

// startWatcher watches the catalog file at path. A built-in catalog has no
// file to watch.
func startWatcher(path string, cat *catalog.Catalog, log *logging.Logger) (*catalog.Watcher, error) {
	if path == "" {
		return nil, errors.New("watching requires a catalog file (--catalog)")
	}
	w, err := catalog.NewWatcher(path, cat, log)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}

func recordReloads(ctx context.Context, w *catalog.Watcher, m *metrics.Collector) {
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-w.Reloads:
			if !ok {
				return
			}
			m.CatalogReloaded(r.Err)
			if r.Err == nil {
				m.SetCatalogBodies(r.Bodies)
			}
		}
	}
}
