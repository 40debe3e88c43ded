package internal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultRemoteTimeout = 30 * time.Second

var _ Embedder = (*RemoteEmbedder)(nil)

// RemoteEmbedder delegates feature extraction to an HTTP embedding
// service. One request is sent per image so a batch stays a sequence
// of independent, interruptible steps.
type RemoteEmbedder struct {
	baseURL   string
	apiKey    string
	model     string
	dimension int
	client    *http.Client
}

type RemoteConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	Dimension int
	Timeout   time.Duration
}

func NewRemoteEmbedder(cfg RemoteConfig) (*RemoteEmbedder, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote embedder requires a base URL")
	}
	if cfg.Dimension < 1 {
		return nil, fmt.Errorf("remote embedder requires a positive dimension, got %d", cfg.Dimension)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultRemoteTimeout
	}

	return &RemoteEmbedder{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

type embedRequest struct {
	Model string `json:"model,omitempty"`
	Image string `json:"image"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Model     string    `json:"model,omitempty"`
}

func (e *RemoteEmbedder) Embed(ctx context.Context, image []byte) ([]float32, error) {
	body, err := json.Marshal(embedRequest{
		Model: e.model,
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embed request failed: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(out.Embedding) != e.dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, e.dimension, len(out.Embedding))
	}

	return out.Embedding, nil
}

func (e *RemoteEmbedder) EmbedBatch(ctx context.Context, images [][]byte) ([][]float32, error) {
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

func (e *RemoteEmbedder) Dimension() int {
	return e.dimension
}

func (e *RemoteEmbedder) Model() string {
	return e.model
}

func (e *RemoteEmbedder) Close() error {
	e.client.CloseIdleConnections()
	return nil
}
