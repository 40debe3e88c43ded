package internal

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultLabel is assigned to images sitting directly in the samples
// root, outside any label directory.
const DefaultLabel = "unlabeled"

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Sample is one labeled image file discovered in a samples folder.
type Sample struct {
	Path  string
	Label string
}

// IsImage reports whether path has a supported image extension.
func IsImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// LabelFor derives a sample's label from its location under root: the
// name of its immediate parent directory, or defaultLabel for files at
// the root itself.
func LabelFor(root, path, defaultLabel string) string {
	if defaultLabel == "" {
		defaultLabel = DefaultLabel
	}

	parent := filepath.Dir(path)
	if parent == filepath.Clean(root) {
		return defaultLabel
	}
	return filepath.Base(parent)
}

// CollectSamples walks a samples folder and returns every image file
// with its derived label, in lexical walk order. Hidden directories
// are skipped.
func CollectSamples(root, defaultLabel string) ([]Sample, error) {
	var samples []Sample

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsImage(path) {
			return nil
		}

		samples = append(samples, Sample{
			Path:  path,
			Label: LabelFor(root, path, defaultLabel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk samples dir: %w", err)
	}

	return samples, nil
}

// CountByLabel tallies samples per label without touching file
// contents.
func CountByLabel(samples []Sample) map[string]int {
	counts := make(map[string]int)
	for _, s := range samples {
		counts[s.Label]++
	}
	return counts
}
