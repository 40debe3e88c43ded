package v1

import (
	"context"
	"fmt"

	"github.com/4thel00z/teachable/internal"
)

// Client provides programmatic access to an in-memory image
// classifier: import labeled folders, then classify images or raw
// vectors. All state is transient; Clear or discard resets it.
type Client struct {
	store      *internal.LabelStore
	embedder   internal.Embedder
	trainer    *internal.TrainerService
	classifier *internal.ClassifierService
	k          int
}

// New creates a new Client with the given options. The default setup
// uses the local pixel embedder, euclidean distance and k=10.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		k:      internal.DefaultK,
		metric: internal.MetricEuclidean,
		embeddings: internal.EmbeddingsConfig{
			Backend: internal.BackendPixel,
			Grid:    internal.DefaultGrid,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.k < 1 {
		return nil, fmt.Errorf("new client: %w", internal.ErrInvalidK)
	}

	embedder, err := internal.NewEmbedder(cfg.embeddings)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	store := internal.NewLabelStore(cfg.metric)

	return &Client{
		store:      store,
		embedder:   embedder,
		trainer:    internal.NewTrainerService(store, embedder, cfg.defaultLabel),
		classifier: internal.NewClassifierService(store, embedder),
		k:          cfg.k,
	}, nil
}

// Train imports a samples folder (label = parent directory) and
// returns the number of examples added.
func (c *Client) Train(ctx context.Context, dir string) (int, error) {
	report, err := c.trainer.ImportDir(ctx, dir)
	if err != nil {
		return 0, fmt.Errorf("train: %w", err)
	}
	return report.Added, nil
}

// AddImage embeds one image file and stores it under label.
func (c *Client) AddImage(ctx context.Context, path, label string) error {
	return c.trainer.AddImage(ctx, path, label)
}

// AddExample stores a precomputed vector under label.
func (c *Client) AddExample(vec []float32, label string) error {
	return c.store.AddExample(vec, label)
}

// Classify embeds an image file and predicts its label.
func (c *Client) Classify(ctx context.Context, path string) (*Prediction, error) {
	pred, err := c.classifier.Classify(ctx, path, c.k)
	if err != nil {
		return nil, err
	}
	return fromInternal(pred), nil
}

// ClassifyBytes embeds encoded image bytes and predicts their label.
func (c *Client) ClassifyBytes(ctx context.Context, image []byte) (*Prediction, error) {
	pred, err := c.classifier.ClassifyBytes(ctx, image, c.k)
	if err != nil {
		return nil, err
	}
	return fromInternal(pred), nil
}

// ClassifyVector predicts the label of a precomputed vector.
func (c *Client) ClassifyVector(vec []float32) (*Prediction, error) {
	pred, err := c.store.Predict(vec, c.k)
	if err != nil {
		return nil, err
	}
	return fromInternal(pred), nil
}

// Counts returns the number of stored examples per label.
func (c *Client) Counts() map[string]int {
	return c.store.ClassExampleCount()
}

// Clear removes all stored examples.
func (c *Client) Clear() {
	c.store.Clear()
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return c.embedder.Close()
}
