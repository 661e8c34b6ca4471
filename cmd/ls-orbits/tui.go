package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/litescript/ls-orbits/internal/catalog"
	"github.com/litescript/ls-orbits/internal/state"
	"github.com/litescript/ls-orbits/internal/ui"
)

const (
	minRefresh = 1 * time.Second
	maxRefresh = 5 * time.Minute
)

var errNoTTY = errors.New("ls-orbits tui requires a TTY (terminal)")

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Live sky dashboard",
	Long: `Shows every catalog body with its altitude, rise/transit/set times and
separation from the Sun, refreshed periodically. Select a body for its
altitude curve and upcoming passes.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().Duration("refresh", 0, "refresh interval (default 5s)")
	tuiCmd.Flags().Bool("watch", false, "reload the catalog file when it changes")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	_ = viper.BindPFlag("tui.refresh", cmd.Flags().Lookup("refresh"))
	_ = viper.BindPFlag("watch_catalog", cmd.Flags().Lookup("watch"))

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTTY
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	// The TUI owns the terminal.
	e.log.SetOutput(io.Discard)

	refresh := min(max(e.cfg.TUI.Refresh, minRefresh), maxRefresh)

	stateCfg := state.DefaultConfig()
	stateCfg.Horizon = e.cfg.Horizon
	stateCfg.RefreshInterval = refresh
	mgr := state.NewManager(e.catalog, e.observer, stateCfg)

	p := tea.NewProgram(ui.New(mgr), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if e.cfg.WatchCatalog {
		w, err := startWatcher(e.cfg.Catalog, e.catalog, e.log)
		if err != nil {
			return err
		}
		defer w.Stop()
		go forwardReloads(ctx, w, p)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func forwardReloads(ctx context.Context, w *catalog.Watcher, p *tea.Program) {
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-w.Reloads:
			if !ok {
				return
			}
			p.Send(ui.CatalogReloadMsg{Reload: r})
		}
	}
}
