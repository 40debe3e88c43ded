package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/teachable/internal"
	"github.com/spf13/cobra"
)

func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate an AI report on a training session",
		Long:  `Import the samples folder and ask the configured LLM provider for a short report on class balance and expected reliability.`,
		RunE:  makeReportRunner(),
	}

	cmd.Flags().StringP("samples", "s", "", "Samples folder (label = parent directory)")
	cmd.Flags().StringP("provider", "p", "", "Provider name (default: configured default)")
	_ = cmd.MarkFlagRequired("samples")

	return cmd
}

func makeReportRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		samplesDir, _ := cmd.Flags().GetString("samples")
		providerHint, _ := cmd.Flags().GetString("provider")
		asJSON, _ := cmd.Flags().GetBool("json")

		sess, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		if _, err := importSamples(cmd, sess, samplesDir); err != nil {
			return err
		}

		provider, err := internal.ResolveProvider(cmd.Context(), sess.cfg, providerHint)
		if err != nil {
			return fmt.Errorf("resolve provider: %w", err)
		}

		svc := internal.NewReportService(sess.store, provider)
		report, err := svc.Generate(cmd.Context())
		if err != nil {
			return fmt.Errorf("generate report: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n\n%s\n", report.Title, report.Overview)
		for _, obs := range report.Observations {
			fmt.Fprintf(out, "- %s\n", obs)
		}
		if len(report.Tags) > 0 {
			fmt.Fprintf(out, "\nTags: %v\n", report.Tags)
		}
		return nil
	}
}
