// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/refile-engine/pkg/types"
)

// fakeRunner records invocations and returns canned results.
type fakeRunner struct {
	calls [][]string
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return nil, []byte("tool stderr"), f.err
	}
	return nil, nil, nil
}

func TestMakeSearchableInvocation(t *testing.T) {
	fr := &fakeRunner{}
	e := NewEngine(types.OCRConfig{Ocrmypdf: "ocrmypdf", Pdftotext: "pdftotext"}, nil)
	e.runner = fr

	if err := e.MakeSearchable(context.Background(), "/scan/a.pdf", "/tmp/a.pdf"); err != nil {
		t.Fatal(err)
	}

	if len(fr.calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(fr.calls))
	}
	got := strings.Join(fr.calls[0], " ")
	want := "ocrmypdf --skip-text --output-type pdf --quiet /scan/a.pdf /tmp/a.pdf"
	if got != want {
		t.Errorf("invocation = %q, want %q", got, want)
	}
}

func TestMakeSearchableFailure(t *testing.T) {
	fr := &fakeRunner{err: errors.New("exit status 2")}
	e := NewEngine(types.OCRConfig{}, nil)
	e.runner = fr

	err := e.MakeSearchable(context.Background(), "/scan/a.pdf", "/tmp/a.pdf")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "tool stderr") {
		t.Errorf("error should carry tool stderr, got %v", err)
	}
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(types.OCRConfig{}, nil)
	if e.cfg.Ocrmypdf != "ocrmypdf" || e.cfg.Pdftotext != "pdftotext" {
		t.Errorf("defaults = %q/%q, want ocrmypdf/pdftotext", e.cfg.Ocrmypdf, e.cfg.Pdftotext)
	}
}

func TestCheckDependenciesMissingTool(t *testing.T) {
	e := NewEngine(types.OCRConfig{
		Ocrmypdf:  "definitely-not-a-real-binary-1b2c3",
		Pdftotext: "also-not-real-9z8y7",
	}, nil)

	if err := e.CheckDependencies(); err == nil {
		t.Error("expected an error for missing binaries")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	long := strings.Repeat("x", 20)
	got := truncate(long, 10)
	if !strings.HasPrefix(got, strings.Repeat("x", 10)) || !strings.HasSuffix(got, "(truncated)") {
		t.Errorf("truncate = %q", got)
	}
}
