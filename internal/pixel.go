package internal

import (
	"bytes"
	"context"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const DefaultGrid = 16

var _ Embedder = (*PixelEmbedder)(nil)

// PixelEmbedder is a local, deterministic embedding provider. It
// decodes an image and averages luminance over a fixed grid of cells,
// yielding values in [0,1]. Coarse, but dependency-free and stable
// across runs, which makes it the default backend and the test
// workhorse.
type PixelEmbedder struct {
	grid int
}

func NewPixelEmbedder(grid int) (*PixelEmbedder, error) {
	if grid == 0 {
		grid = DefaultGrid
	}
	if grid < 1 {
		return nil, fmt.Errorf("invalid grid size: %d", grid)
	}
	return &PixelEmbedder{grid: grid}, nil
}

func (e *PixelEmbedder) Embed(_ context.Context, data []byte) ([]float32, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}

	g := e.grid
	sums := make([]float32, g*g)
	hits := make([]int, g*g)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		cy := (y - b.Min.Y) * g / b.Dy()
		for x := b.Min.X; x < b.Max.X; x++ {
			cx := (x - b.Min.X) * g / b.Dx()
			r, gr, bl, _ := img.At(x, y).RGBA()

			// Rec. 601 luma, scaled back from 16-bit channels.
			luma := 0.299*float32(r>>8) + 0.587*float32(gr>>8) + 0.114*float32(bl>>8)

			cell := cy*g + cx
			sums[cell] += luma / 255.0
			hits[cell]++
		}
	}

	vec := make([]float32, g*g)
	for i := range vec {
		if hits[i] > 0 {
			vec[i] = sums[i] / float32(hits[i])
		}
	}

	return vec, nil
}

func (e *PixelEmbedder) EmbedBatch(ctx context.Context, images [][]byte) ([][]float32, error) {
	vecs := make([][]float32, 0, len(images))
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return vecs, err
		}

		vec, err := e.Embed(ctx, img)
		if err != nil {
			return vecs, err
		}
		vecs = append(vecs, vec)
	}
	return vecs, nil
}

func (e *PixelEmbedder) Dimension() int {
	return e.grid * e.grid
}

func (e *PixelEmbedder) Model() string {
	return fmt.Sprintf("pixel-%dx%d", e.grid, e.grid)
}

func (e *PixelEmbedder) Close() error {
	return nil
}
