package v1

import "github.com/4thel00z/teachable/internal"

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	k            int
	metric       internal.Metric
	defaultLabel string
	embeddings   internal.EmbeddingsConfig
}

// WithK sets the neighbor count used for predictions.
func WithK(k int) Option {
	return func(c *clientConfig) {
		c.k = k
	}
}

// WithCosineDistance switches the classifier to cosine distance.
func WithCosineDistance() Option {
	return func(c *clientConfig) {
		c.metric = internal.MetricCosine
	}
}

// WithDefaultLabel sets the label for images at the samples root.
func WithDefaultLabel(label string) Option {
	return func(c *clientConfig) {
		c.defaultLabel = label
	}
}

// WithGrid sets the cell grid of the local pixel embedder.
func WithGrid(grid int) Option {
	return func(c *clientConfig) {
		c.embeddings.Backend = internal.BackendPixel
		c.embeddings.Grid = grid
	}
}

// WithRemoteEmbedder delegates feature extraction to an HTTP embedding
// service producing vectors of the given dimension.
func WithRemoteEmbedder(baseURL, apiKey, model string, dimension int) Option {
	return func(c *clientConfig) {
		c.embeddings = internal.EmbeddingsConfig{
			Backend:   internal.BackendRemote,
			BaseURL:   baseURL,
			APIKey:    apiKey,
			Model:     model,
			Dimension: dimension,
		}
	}
}
