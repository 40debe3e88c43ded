package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder hashes file bytes into a small vector so service tests
// can run without decoding real images.
type stubEmbedder struct {
	dim int
}

func (e *stubEmbedder) Embed(_ context.Context, image []byte) ([]float32, error) {
	if string(image) == "broken" {
		return nil, errors.New("stub: cannot embed")
	}

	vec := make([]float32, e.dim)
	for i, b := range image {
		vec[i%e.dim] += float32(b) / 255.0
	}
	return vec, nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, images [][]byte) ([][]float32, error) {
	vecs := make([][]float32, 0, len(images))
	for _, img := range images {
		vec, err := e.Embed(ctx, img)
		if err != nil {
			return vecs, err
		}
		vecs = append(vecs, vec)
	}
	return vecs, nil
}

func (e *stubEmbedder) Dimension() int { return e.dim }
func (e *stubEmbedder) Model() string  { return "stub" }
func (e *stubEmbedder) Close() error   { return nil }

func writeSample(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestTrainerServiceImportDir(t *testing.T) {
	root := t.TempDir()
	writeSample(t, filepath.Join(root, "cats", "a.png"), "aaaa")
	writeSample(t, filepath.Join(root, "cats", "b.png"), "aaab")
	writeSample(t, filepath.Join(root, "dogs", "c.png"), "zzzz")

	store := NewLabelStore(MetricEuclidean)
	trainer := NewTrainerService(store, &stubEmbedder{dim: 4}, "")

	report, err := trainer.ImportDir(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Added)
	assert.Empty(t, report.Failed)
	assert.Equal(t, map[string]int{"cats": 2, "dogs": 1}, store.ClassExampleCount())
}

func TestTrainerServiceCollectsFailures(t *testing.T) {
	root := t.TempDir()
	writeSample(t, filepath.Join(root, "cats", "good.png"), "aaaa")
	writeSample(t, filepath.Join(root, "cats", "bad.png"), "broken")

	store := NewLabelStore(MetricEuclidean)
	trainer := NewTrainerService(store, &stubEmbedder{dim: 4}, "")

	report, err := trainer.ImportDir(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Added)
	require.Len(t, report.Failed, 1)
	assert.Contains(t, report.Failed[0].Path, "bad.png")
	assert.Equal(t, 1, store.Len())
}

func TestTrainerServiceCancelLeavesPartialStore(t *testing.T) {
	root := t.TempDir()
	writeSample(t, filepath.Join(root, "cats", "a.png"), "aaaa")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewLabelStore(MetricEuclidean)
	trainer := NewTrainerService(store, &stubEmbedder{dim: 4}, "")

	report, err := trainer.ImportDir(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 0, store.Len())
}

func TestClassifierServiceClassify(t *testing.T) {
	root := t.TempDir()
	writeSample(t, filepath.Join(root, "cats", "a.png"), "aaaa")
	writeSample(t, filepath.Join(root, "cats", "b.png"), "aaab")
	writeSample(t, filepath.Join(root, "dogs", "c.png"), "zzzz")

	store := NewLabelStore(MetricEuclidean)
	embedder := &stubEmbedder{dim: 4}
	trainer := NewTrainerService(store, embedder, "")
	classifier := NewClassifierService(store, embedder)

	_, err := trainer.ImportDir(context.Background(), root)
	require.NoError(t, err)

	query := filepath.Join(root, "query.png")
	writeSample(t, query, "aaac")

	pred, err := classifier.Classify(context.Background(), query, 2)
	require.NoError(t, err)

	assert.Equal(t, "cats", pred.Label)
	assert.InDelta(t, 1.0, pred.Confidences["cats"], 1e-6)

	classifier.Reset()
	assert.Empty(t, classifier.Counts())

	_, err = classifier.Classify(context.Background(), query, 2)
	assert.ErrorIs(t, err, ErrEmptyStore)
}

func TestTrainerServiceAddImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writeSample(t, path, "aaaa")

	store := NewLabelStore(MetricEuclidean)
	trainer := NewTrainerService(store, &stubEmbedder{dim: 4}, "misc")

	require.NoError(t, trainer.AddImage(context.Background(), path, "cats"))
	require.NoError(t, trainer.AddImage(context.Background(), path, ""))

	assert.Equal(t, map[string]int{"cats": 1, "misc": 1}, store.ClassExampleCount())
}

// fakeProvider returns a canned report without touching a network.
type fakeProvider struct {
	lastPrompt string
}

func (p *fakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	p.lastPrompt = prompt
	return "ok", nil
}

func (p *fakeProvider) GenerateObject(_ context.Context, prompt string, target any) error {
	p.lastPrompt = prompt
	if report, ok := target.(*SessionReport); ok {
		report.Title = "Session"
		report.Overview = "Two balanced classes"
	}
	return nil
}

func TestReportServiceGenerate(t *testing.T) {
	store := NewLabelStore(MetricEuclidean)
	require.NoError(t, store.AddExample([]float32{1, 0}, "cats"))
	require.NoError(t, store.AddExample([]float32{0, 1}, "dogs"))

	provider := &fakeProvider{}
	svc := NewReportService(store, provider)

	report, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Session", report.Title)
	assert.Contains(t, provider.lastPrompt, "cats: 1")
	assert.Contains(t, provider.lastPrompt, "dogs: 1")
	assert.Contains(t, provider.lastPrompt, "euclidean")
}

func TestReportServiceEmptyStore(t *testing.T) {
	svc := NewReportService(NewLabelStore(MetricEuclidean), &fakeProvider{})

	report, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Empty session", report.Title)
}

func TestReportServiceNoProvider(t *testing.T) {
	svc := NewReportService(NewLabelStore(MetricEuclidean), nil)

	_, err := svc.Generate(context.Background())
	assert.Error(t, err)
}

func TestProviderServiceRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")
	svc := NewProviderService(configPath)

	require.NoError(t, svc.Add("openai", ProviderConfig{APIKey: "k", Model: "gpt-test"}))
	require.NoError(t, svc.Add("anthropic", ProviderConfig{APIKey: "k2", Model: "claude-test"}))

	names, err := svc.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"anthropic", "openai"}, names)

	require.NoError(t, svc.SetDefault("openai"))
	assert.Error(t, svc.SetDefault("missing"))

	require.NoError(t, svc.Remove("openai"))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.DefaultProvider)
	assert.NotContains(t, cfg.Providers, "openai")
}
