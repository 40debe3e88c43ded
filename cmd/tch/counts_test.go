package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestCountsCmd(t *testing.T) {
	samples := setupSamples(t)
	writeSplitPNG(t, filepath.Join(samples, "loose.png"), 100, 100)

	cmd := NewRootCmd("test")
	cmd.SetArgs([]string{"counts", "--samples", samples})

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	for _, want := range []string{"cats", "dogs", "unlabeled"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output, got:\n%s", want, out.String())
		}
	}
}

func TestCountsCmdJSON(t *testing.T) {
	samples := setupSamples(t)

	cmd := NewRootCmd("test")
	cmd.SetArgs([]string{"counts", "--samples", samples, "--json"})

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var counts map[string]int
	if err := json.Unmarshal(out.Bytes(), &counts); err != nil {
		t.Fatalf("parse json output: %v", err)
	}

	if counts["cats"] != 3 || counts["dogs"] != 3 {
		t.Errorf("expected 3 cats and 3 dogs, got %v", counts)
	}
}

func TestCountsCmdCustomDefaultLabel(t *testing.T) {
	root := t.TempDir()
	writeSplitPNG(t, filepath.Join(root, "loose.png"), 100, 100)

	cmd := NewRootCmd("test")
	cmd.SetArgs([]string{"counts", "--samples", root, "--default-label", "misc"})

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !strings.Contains(out.String(), "misc") {
		t.Errorf("expected misc label, got:\n%s", out.String())
	}
}
