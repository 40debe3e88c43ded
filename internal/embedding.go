package internal

import (
	"context"
	"fmt"
)

// Embedder maps encoded image bytes to a fixed-length feature vector.
// Implementations must be deterministic for identical bytes and
// identical configuration.
type Embedder interface {
	Embed(ctx context.Context, image []byte) ([]float32, error)
	EmbedBatch(ctx context.Context, images [][]byte) ([][]float32, error)
	Dimension() int
	Model() string
	Close() error
}

// NewEmbedder builds the embedder named by cfg.Backend.
func NewEmbedder(cfg EmbeddingsConfig) (Embedder, error) {
	switch cfg.Backend {
	case "", BackendPixel:
		return NewPixelEmbedder(cfg.Grid)
	case BackendRemote:
		return NewRemoteEmbedder(RemoteConfig{
			BaseURL:   cfg.BaseURL,
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			Dimension: cfg.Dimension,
		})
	default:
		return nil, fmt.Errorf("unsupported embeddings backend: %s", cfg.Backend)
	}
}
