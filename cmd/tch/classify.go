package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/4thel00z/teachable/internal"
	"github.com/spf13/cobra"
)

func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <image>...",
		Short: "Classify images against a samples folder",
		Long:  `Import the samples folder, then classify each image by majority vote over its k nearest stored examples.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  makeClassifyRunner(),
	}

	cmd.Flags().StringP("samples", "s", "", "Samples folder (label = parent directory)")
	cmd.Flags().IntP("k", "k", 0, "Neighbor count (0 = config default)")
	cmd.Flags().String("metric", "", "Distance metric (euclidean|cosine)")
	cmd.Flags().Bool("neighbors", false, "Show the nearest neighbors per image")
	_ = cmd.MarkFlagRequired("samples")

	return cmd
}

func makeClassifyRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		samplesDir, _ := cmd.Flags().GetString("samples")
		k, _ := cmd.Flags().GetInt("k")
		showNeighbors, _ := cmd.Flags().GetBool("neighbors")
		asJSON, _ := cmd.Flags().GetBool("json")

		sess, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		if _, err := importSamples(cmd, sess, samplesDir); err != nil {
			return err
		}

		results := make([]classifyResult, 0, len(args))
		for _, path := range args {
			pred, err := sess.classifier.Classify(cmd.Context(), path, sess.resolveK(k))
			if err != nil {
				return fmt.Errorf("classify %s: %w", path, err)
			}
			results = append(results, classifyResult{Path: path, Prediction: pred})
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		for _, r := range results {
			printPrediction(cmd, r, showNeighbors)
		}
		return nil
	}
}

type classifyResult struct {
	Path       string               `json:"path"`
	Prediction *internal.Prediction `json:"prediction"`
}

func printPrediction(cmd *cobra.Command, r classifyResult, showNeighbors bool) {
	out := cmd.OutOrStdout()
	pred := r.Prediction

	fmt.Fprintf(out, "%s: %s (%.2f)\n", r.Path, pred.Label, pred.Confidences[pred.Label])

	labels := make([]string, 0, len(pred.Confidences))
	for label := range pred.Confidences {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		fmt.Fprintf(out, "  %-12s %.4f\n", label, pred.Confidences[label])
	}

	if showNeighbors {
		for _, n := range pred.Neighbors {
			fmt.Fprintf(out, "  ~ %.4f  %s\n", n.Distance, n.Label)
		}
	}
}
