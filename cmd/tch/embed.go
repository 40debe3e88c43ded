package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewEmbedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "embed <image>",
		Short: "Print the feature vector of an image",
		Args:  cobra.ExactArgs(1),
		RunE:  makeEmbedRunner(),
	}
}

func makeEmbedRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		sess, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		vec, err := sess.embedder.Embed(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("embed image: %w", err)
		}

		if asJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
				"model":     sess.embedder.Model(),
				"dimension": len(vec),
				"vector":    vec,
			})
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", sess.embedder.Model(), len(vec))
		for _, x := range vec {
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f ", x)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	}
}
