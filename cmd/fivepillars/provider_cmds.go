package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fivepillars/internal/bootstrap"
	insightdto "fivepillars/internal/modules/insight/dto"
)

func newProviderCmd(g *globals) *cobra.Command {
	provider := &cobra.Command{Use: "provider", Short: "Insight provider plugins"}

	provider.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List provider manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				providers, err := app.InsightCLI.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(providers) == 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no providers configured (%s)\n", app.Config.Providers.ManifestPath)
					return nil
				}
				for _, p := range providers {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s\n", p.Name, p.Version, p.Enabled, p.Binary)
				}
				return nil
			})
		},
	})

	provider.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate provider checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				results, err := app.InsightCLI.Doctor(cmd.Context())
				if err != nil {
					return err
				}
				if len(results) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no providers configured")
					return nil
				}
				for _, r := range results {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
					if r.Error != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%s", r.Error)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			})
		},
	})

	var all bool
	run := &cobra.Command{
		Use:   "run <name> | --all",
		Short: "Generate insights from one or every enabled provider",
		Args: func(_ *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("give a provider name or --all, not both")
			}
			if !all && len(args) != 1 {
				return fmt.Errorf("provider name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd.Context(), func(app *bootstrap.App) error {
				if all {
					outs, err := app.InsightCLI.RunAll(cmd.Context())
					for _, out := range outs {
						printRun(cmd.OutOrStdout(), out)
					}
					return err
				}
				out, err := app.InsightCLI.Run(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printRun(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	run.Flags().BoolVar(&all, "all", false, "run every enabled provider")

	provider.AddCommand(run)
	return provider
}

func printRun(w io.Writer, out insightdto.RunOutput) {
	_, _ = fmt.Fprintf(w, "%s received=%d stored=%d rejected=%d ids=%s\n", out.Provider, out.Received, out.Stored, out.Rejected, joinOr(out.IDs, "-"))
}
