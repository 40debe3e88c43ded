package internal

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
)

// TrainerService feeds labeled images into a LabelStore, one embedding
// per step so a long import stays interruptible.
type TrainerService struct {
	store        *LabelStore
	embedder     Embedder
	defaultLabel string
}

func NewTrainerService(store *LabelStore, embedder Embedder, defaultLabel string) *TrainerService {
	if defaultLabel == "" {
		defaultLabel = DefaultLabel
	}
	return &TrainerService{
		store:        store,
		embedder:     embedder,
		defaultLabel: defaultLabel,
	}
}

type ImportFailure struct {
	Path string
	Err  error
}

type ImportReport struct {
	Added  int
	Failed []ImportFailure
}

// ImportDir walks a samples folder and adds every image it can embed.
// Per-file failures are collected rather than fatal; cancellation
// returns the partial report, leaving the store valid but smaller.
func (s *TrainerService) ImportDir(ctx context.Context, root string) (*ImportReport, error) {
	samples, err := CollectSamples(root, s.defaultLabel)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for _, sample := range samples {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := s.addSample(ctx, sample); err != nil {
			report.Failed = append(report.Failed, ImportFailure{Path: sample.Path, Err: err})
			continue
		}
		report.Added++
	}

	return report, nil
}

// AddImage embeds a single image file and stores it under label.
func (s *TrainerService) AddImage(ctx context.Context, path, label string) error {
	if label == "" {
		label = s.defaultLabel
	}
	return s.addSample(ctx, Sample{Path: path, Label: label})
}

func (s *TrainerService) addSample(ctx context.Context, sample Sample) error {
	data, err := os.ReadFile(sample.Path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	vec, err := s.embedder.Embed(ctx, data)
	if err != nil {
		return fmt.Errorf("embed image: %w", err)
	}

	if err := s.store.AddExample(vec, sample.Label); err != nil {
		return fmt.Errorf("add example: %w", err)
	}

	return nil
}

// ClassifierService answers queries against a trained LabelStore.
type ClassifierService struct {
	store    *LabelStore
	embedder Embedder
}

func NewClassifierService(store *LabelStore, embedder Embedder) *ClassifierService {
	return &ClassifierService{
		store:    store,
		embedder: embedder,
	}
}

func (s *ClassifierService) Classify(ctx context.Context, path string, k int) (*Prediction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return s.ClassifyBytes(ctx, data, k)
}

func (s *ClassifierService) ClassifyBytes(ctx context.Context, image []byte, k int) (*Prediction, error) {
	vec, err := s.embedder.Embed(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("embed image: %w", err)
	}
	return s.store.Predict(vec, k)
}

func (s *ClassifierService) Counts() map[string]int {
	return s.store.ClassExampleCount()
}

func (s *ClassifierService) Reset() {
	s.store.Clear()
}

// SessionReport is an AI-written summary of a training session.
type SessionReport struct {
	Title        string   `json:"title"`
	Overview     string   `json:"overview"`
	Observations []string `json:"observations"`
	Tags         []string `json:"tags"`
}

// ReportService turns the state of a LabelStore into a readable
// session report via an LLM provider.
type ReportService struct {
	store    *LabelStore
	provider Provider
}

func NewReportService(store *LabelStore, provider Provider) *ReportService {
	return &ReportService{
		store:    store,
		provider: provider,
	}
}

func (s *ReportService) Generate(ctx context.Context) (*SessionReport, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("provider not available")
	}

	counts := s.store.ClassExampleCount()
	if len(counts) == 0 {
		return &SessionReport{Title: "Empty session", Overview: "No examples imported"}, nil
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var sb strings.Builder
	sb.WriteString("Write a short report on this image classification training session.\n\n")
	fmt.Fprintf(&sb, "Distance metric: %s\n", s.store.Metric())
	fmt.Fprintf(&sb, "Embedding dimension: %d\n", s.store.Dimension())
	sb.WriteString("Examples per class:\n")
	for _, label := range labels {
		fmt.Fprintf(&sb, "- %s: %d\n", label, counts[label])
	}
	sb.WriteString("\nComment on class balance and how reliable predictions are likely to be.")

	var report SessionReport
	if err := s.provider.GenerateObject(ctx, sb.String(), &report); err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	return &report, nil
}

// ProviderService manages LLM provider entries in the config file.
type ProviderService struct {
	configPath string
}

func NewProviderService(configPath string) *ProviderService {
	return &ProviderService{configPath: configPath}
}

func (s *ProviderService) List() ([]string, error) {
	cfg, err := LoadConfig(s.configPath)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *ProviderService) Add(name string, providerCfg ProviderConfig) error {
	cfg, err := LoadConfig(s.configPath)
	if err != nil {
		return err
	}

	cfg.Providers[name] = providerCfg
	return SaveConfig(s.configPath, cfg)
}

func (s *ProviderService) Remove(name string) error {
	cfg, err := LoadConfig(s.configPath)
	if err != nil {
		return err
	}

	delete(cfg.Providers, name)
	if cfg.DefaultProvider == name {
		cfg.DefaultProvider = ""
	}
	return SaveConfig(s.configPath, cfg)
}

func (s *ProviderService) SetDefault(name string) error {
	cfg, err := LoadConfig(s.configPath)
	if err != nil {
		return err
	}

	if _, exists := cfg.Providers[name]; !exists {
		return fmt.Errorf("provider %q not found", name)
	}

	cfg.DefaultProvider = name
	return SaveConfig(s.configPath, cfg)
}

func (s *ProviderService) Test(ctx context.Context, name string) error {
	cfg, err := LoadConfig(s.configPath)
	if err != nil {
		return err
	}

	providerCfg, exists := cfg.Providers[name]
	if !exists {
		return fmt.Errorf("provider %q not found", name)
	}

	provider, err := NewFantasyProvider(ctx, FantasyConfig{
		Provider: name,
		APIKey:   providerCfg.APIKey,
		BaseURL:  providerCfg.BaseURL,
		Model:    providerCfg.Model,
	})
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	_, err = provider.Complete(ctx, "Say hello")
	return err
}

// ResolveProvider builds the provider named by hint, or the configured
// default when hint is empty.
func ResolveProvider(ctx context.Context, cfg *Config, hint string) (Provider, error) {
	name := hint
	if name == "" {
		name = cfg.DefaultProvider
	}
	if name == "" {
		return nil, fmt.Errorf("no provider configured")
	}

	providerCfg, exists := cfg.Providers[name]
	if !exists {
		return nil, fmt.Errorf("provider %q not found", name)
	}

	return NewFantasyProvider(ctx, FantasyConfig{
		Provider: name,
		APIKey:   providerCfg.APIKey,
		BaseURL:  providerCfg.BaseURL,
		Model:    providerCfg.Model,
	})
}
