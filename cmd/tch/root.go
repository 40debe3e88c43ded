package main

import (
	"fmt"

	"github.com/4thel00z/teachable/internal"
	"github.com/spf13/cobra"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tch",
		Short:         "Teach an image classifier from labeled folders",
		Long:          `Import a folder of labeled images, embed them with a feature extractor and classify new images by nearest-neighbor vote.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)

	rootCmd.AddCommand(
		NewClassifyCmd(),
		NewCountsCmd(),
		NewEmbedCmd(),
		NewWatchCmd(),
		NewReportCmd(),
		NewProviderCmd(),
	)

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Config file path")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

// session bundles the store, embedder and services one command
// invocation works with. State lives only for the invocation; there is
// no persistence.
type session struct {
	cfg        *internal.Config
	store      *internal.LabelStore
	embedder   internal.Embedder
	trainer    *internal.TrainerService
	classifier *internal.ClassifierService
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	metric, err := parseMetricFlag(cmd, cfg)
	if err != nil {
		return nil, err
	}

	embedder, err := internal.NewEmbedder(cfg.Embeddings)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	store := internal.NewLabelStore(metric)

	return &session{
		cfg:        cfg,
		store:      store,
		embedder:   embedder,
		trainer:    internal.NewTrainerService(store, embedder, cfg.Classifier.DefaultLabel),
		classifier: internal.NewClassifierService(store, embedder),
	}, nil
}

func (s *session) Close() error {
	return s.embedder.Close()
}

// resolveK prefers the -k flag when set, the config default otherwise.
func (s *session) resolveK(k int) int {
	if k > 0 {
		return k
	}
	return s.cfg.Classifier.K
}

func loadConfig(cmd *cobra.Command) (*internal.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func parseMetricFlag(cmd *cobra.Command, cfg *internal.Config) (internal.Metric, error) {
	name := cfg.Classifier.Metric
	if cmd.Flags().Lookup("metric") != nil {
		if flagged, _ := cmd.Flags().GetString("metric"); flagged != "" {
			name = flagged
		}
	}

	metric, err := internal.ParseMetric(name)
	if err != nil {
		return "", fmt.Errorf("parse metric: %w", err)
	}
	return metric, nil
}

// importSamples runs the folder import and reports per-file failures
// on stderr without aborting the command.
func importSamples(cmd *cobra.Command, sess *session, dir string) (*internal.ImportReport, error) {
	report, err := sess.trainer.ImportDir(cmd.Context(), dir)
	if err != nil {
		return nil, fmt.Errorf("import samples: %w", err)
	}

	for _, failure := range report.Failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", failure.Path, failure.Err)
	}

	if report.Added == 0 {
		return nil, fmt.Errorf("no examples imported from %s", dir)
	}

	return report, nil
}
