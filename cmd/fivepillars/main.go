package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fivepillars/internal/bootstrap"
	"fivepillars/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(bootstrap.Options{}).ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

type globals struct {
	dataDir    string
	configPath string
	ephemeral  bool
	opts       bootstrap.Options
}

// withApp wires the app, loads persisted state, runs fn and drains pending
// writes before returning.
func (g *globals) withApp(ctx context.Context, fn func(app *bootstrap.App) error) (err error) {
	cfg, err := config.Load(g.dataDir, g.configPath)
	if err != nil {
		return err
	}
	opts := g.opts
	opts.Ephemeral = g.ephemeral
	app, err := bootstrap.New(cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if err := app.Start(ctx); err != nil {
		return err
	}
	return fn(app)
}

func newRootCmd(opts bootstrap.Options) *cobra.Command {
	g := &globals{opts: opts}

	root := &cobra.Command{
		Use:           "fivepillars",
		Short:         "Track body, mind, heart, spirit and diet practice",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.dataDir, "data-dir", config.DefaultDataDir(), "directory holding state, journal and provider manifests")
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default <data-dir>/config.yaml)")
	root.PersistentFlags().BoolVar(&g.ephemeral, "ephemeral", false, "keep state in memory only")

	root.AddCommand(
		newInitCmd(g),
		newStatusCmd(g),
		newSessionCmd(g),
		newProfileCmd(g),
		newScoresCmd(g),
		newAchievementCmd(g),
		newInsightCmd(g),
		newStreakCmd(g),
		newSyncCmd(g),
		newClearCmd(g),
		newExportCmd(g),
		newTUICmd(g),
		newProviderCmd(g),
		newMetricsCmd(g),
	)
	return root
}

func newTUICmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				return bootstrap.RunTUI(cmd.Context(), app)
			})
		},
	}
}

func newMetricsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print this process's counters in Prometheus text format",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				return app.Metrics.WriteText(cmd.OutOrStdout())
			})
		},
	}
}
