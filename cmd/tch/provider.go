package main

import (
	"fmt"

	"github.com/4thel00z/teachable/internal"
	"github.com/spf13/cobra"
)

func NewProviderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage LLM providers",
		Long:  `List, add, remove, and test the LLM providers used by the report command.`,
	}

	cmd.AddCommand(
		newProviderListCmd(),
		newProviderAddCmd(),
		newProviderRemoveCmd(),
		newProviderDefaultCmd(),
		newProviderTestCmd(),
	)

	return cmd
}

func providerService(cmd *cobra.Command) *internal.ProviderService {
	path, _ := cmd.Flags().GetString("config")
	return internal.NewProviderService(path)
}

func newProviderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured providers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := providerService(cmd).List()
			if err != nil {
				return fmt.Errorf("list providers: %w", err)
			}

			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No providers configured.")
				return nil
			}

			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newProviderAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			apiKey, _ := cmd.Flags().GetString("api-key")
			baseURL, _ := cmd.Flags().GetString("base-url")
			model, _ := cmd.Flags().GetString("model")

			if err := providerService(cmd).Add(name, internal.ProviderConfig{
				APIKey:  apiKey,
				BaseURL: baseURL,
				Model:   model,
			}); err != nil {
				return fmt.Errorf("add provider: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added provider %s\n", name)
			return nil
		},
	}

	cmd.Flags().String("api-key", "", "API key")
	cmd.Flags().String("base-url", "", "Base URL")
	cmd.Flags().String("model", "", "Model name")
	return cmd
}

func newProviderRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := providerService(cmd).Remove(args[0]); err != nil {
				return fmt.Errorf("remove provider: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed provider %s\n", args[0])
			return nil
		},
	}
}

func newProviderDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default <name>",
		Short: "Set default provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := providerService(cmd).SetDefault(args[0]); err != nil {
				return fmt.Errorf("set default: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default provider set to %s\n", args[0])
			return nil
		},
	}
}

func newProviderTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <name>",
		Short: "Test a provider with a small completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := providerService(cmd).Test(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("test provider: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Provider %s OK\n", args[0])
			return nil
		},
	}
}
