// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/refile-engine/pkg/types"
)

var testDate = types.DateCandidate{
	Year: 2023, Month: 4, Day: 1,
	Source: types.SourceFilename, Confident: true,
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPlanDatetreeLayout(t *testing.T) {
	r := New("/dest", false, nil)
	target := r.Plan("invoice.pdf", testDate)

	wantFolder := filepath.Join("/dest", "2023", "04", "01")
	if target.Folder != wantFolder {
		t.Errorf("folder = %s, want %s", target.Folder, wantFolder)
	}
	if target.File != filepath.Join(wantFolder, "invoice.pdf") {
		t.Errorf("file = %s, want %s", target.File, filepath.Join(wantFolder, "invoice.pdf"))
	}
}

func TestRefileMovesAndDeletesOriginal(t *testing.T) {
	tmp := t.TempDir()
	processed := filepath.Join(tmp, "work", "invoice.pdf")
	original := filepath.Join(tmp, "scan", "invoice.pdf")
	writeFile(t, processed, "searchable")
	writeFile(t, original, "original scan")

	r := New(filepath.Join(tmp, "dest"), false, nil)
	target, err := r.Refile(processed, original, "invoice.pdf", testDate)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(target.File)
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if string(data) != "searchable" {
		t.Errorf("destination content = %q, want the processed copy", data)
	}
	if _, err := os.Stat(original); !os.IsNotExist(err) {
		t.Error("original should be deleted after a successful move")
	}
	if _, err := os.Stat(processed); !os.IsNotExist(err) {
		t.Error("processed file should have been moved away")
	}
}

func TestRefileNeverClobbers(t *testing.T) {
	tmp := t.TempDir()
	r := New(filepath.Join(tmp, "dest"), false, nil)

	var got []string
	for i, content := range []string{"first", "second", "third"} {
		processed := filepath.Join(tmp, "work", "run", "name.pdf")
		original := filepath.Join(tmp, "scan", "name.pdf")
		writeFile(t, processed, content)
		writeFile(t, original, "scan")

		target, err := r.Refile(processed, original, "name.pdf", testDate)
		if err != nil {
			t.Fatalf("refile %d: %v", i, err)
		}
		got = append(got, filepath.Base(target.File))
	}

	want := []string{"name.pdf", "name_1.pdf", "name_2.pdf"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("refile %d landed at %s, want %s", i, got[i], want[i])
		}
	}

	// Every copy survived with its own content.
	folder := filepath.Join(tmp, "dest", "2023", "04", "01")
	for i, name := range want {
		data, err := os.ReadFile(filepath.Join(folder, name))
		if err != nil {
			t.Fatal(err)
		}
		wantContent := []string{"first", "second", "third"}[i]
		if string(data) != wantContent {
			t.Errorf("%s content = %q, want %q", name, data, wantContent)
		}
	}
}

func TestRefileDryRunMutatesNothing(t *testing.T) {
	tmp := t.TempDir()
	processed := filepath.Join(tmp, "work", "invoice.pdf")
	original := filepath.Join(tmp, "scan", "invoice.pdf")
	writeFile(t, processed, "searchable")
	writeFile(t, original, "original scan")

	destRoot := filepath.Join(tmp, "dest")
	r := New(destRoot, true, nil)
	target, err := r.Refile(processed, original, "invoice.pdf", testDate)
	if err != nil {
		t.Fatal(err)
	}

	if target.File != filepath.Join(destRoot, "2023", "04", "01", "invoice.pdf") {
		t.Errorf("dry run should still report the resolved target, got %s", target.File)
	}
	if _, err := os.Stat(destRoot); !os.IsNotExist(err) {
		t.Error("dry run must not create the destination tree")
	}
	if _, err := os.Stat(original); err != nil {
		t.Error("dry run must not touch the original")
	}
	if _, err := os.Stat(processed); err != nil {
		t.Error("dry run must not touch the processed file")
	}
}

func TestRefileMoveFailureKeepsOriginal(t *testing.T) {
	tmp := t.TempDir()
	original := filepath.Join(tmp, "scan", "invoice.pdf")
	writeFile(t, original, "original scan")

	r := New(filepath.Join(tmp, "dest"), false, nil)
	// The processed path does not exist, so the move fails.
	_, err := r.Refile(filepath.Join(tmp, "work", "missing.pdf"), original, "invoice.pdf", testDate)
	if err == nil {
		t.Fatal("expected the move to fail")
	}
	if _, statErr := os.Stat(original); statErr != nil {
		t.Error("a failed move must never delete the original")
	}
}

func TestUniquePathSkipsExistingSuffixes(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "doc.pdf"), "a")
	writeFile(t, filepath.Join(tmp, "doc_1.pdf"), "b")

	got := uniquePath(tmp, "doc.pdf")
	if filepath.Base(got) != "doc_2.pdf" {
		t.Errorf("uniquePath = %s, want doc_2.pdf", filepath.Base(got))
	}
}
