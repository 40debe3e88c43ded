package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/4thel00z/teachable/internal"
	"github.com/spf13/cobra"
)

func NewCountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Count samples per label in a folder",
		Long:  `Walk a samples folder and print how many images each label directory contributes. No embedding happens.`,
		RunE:  makeCountsRunner(),
	}

	cmd.Flags().StringP("samples", "s", "", "Samples folder (label = parent directory)")
	cmd.Flags().String("default-label", "", "Label for images at the folder root")
	_ = cmd.MarkFlagRequired("samples")

	return cmd
}

func makeCountsRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		samplesDir, _ := cmd.Flags().GetString("samples")
		defaultLabel, _ := cmd.Flags().GetString("default-label")
		asJSON, _ := cmd.Flags().GetBool("json")

		samples, err := internal.CollectSamples(samplesDir, defaultLabel)
		if err != nil {
			return fmt.Errorf("collect samples: %w", err)
		}

		counts := internal.CountByLabel(samples)

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(counts)
		}

		labels := make([]string, 0, len(counts))
		for label := range counts {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		for _, label := range labels {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d\n", label, counts[label])
		}
		return nil
	}
}
