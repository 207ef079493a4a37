// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"iter"
	"slices"
	"testing"
	"time"

	"github.com/pdiddy/refile-engine/pkg/types"
)

func fixedNow(t *testing.T, value time.Time) {
	t.Helper()
	orig := Now
	Now = func() time.Time { return value }
	t.Cleanup(func() { Now = orig })
}

func entry(name string) types.RawFileEntry {
	return types.RawFileEntry{
		Path:         "/scan/" + name,
		Filename:     name,
		CreationTime: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func noLines() iter.Seq[string] {
	return slices.Values([]string(nil))
}

func TestResolvePriorityChain(t *testing.T) {
	fixedNow(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC))
	var r Resolver

	tests := []struct {
		name        string
		filename    string
		lines       []string
		wantStamp   string
		wantSource  types.DateSource
		wantConfirm bool
	}{
		{
			name:        "filename prefix wins over conflicting text",
			filename:    "20230401-invoice.pdf",
			lines:       []string{"statement date 01/01/1999"},
			wantStamp:   "20230401",
			wantSource:  types.SourceFilename,
			wantConfirm: false,
		},
		{
			name:        "scanned prefix",
			filename:    "Scanned_20230215-receipt.pdf",
			wantStamp:   "20230215",
			wantSource:  types.SourceScannedPrefix,
			wantConfirm: false,
		},
		{
			name:        "text scan on first parseable line",
			filename:    "receipt.pdf",
			lines:       []string{"ACME Corp", "Date: 2023-05-20", "Total 12.00"},
			wantStamp:   "20230520",
			wantSource:  types.SourceTextScan,
			wantConfirm: false,
		},
		{
			name:        "filesystem fallback always needs confirmation",
			filename:    "receipt.pdf",
			lines:       []string{"no dates here"},
			wantStamp:   "20230601",
			wantSource:  types.SourceFSTimestamp,
			wantConfirm: true,
		},
		{
			name:        "invalid filename digits fall through to text",
			filename:    "20231399-notes.pdf",
			lines:       []string{"written 2023-05-20"},
			wantStamp:   "20230520",
			wantSource:  types.SourceTextScan,
			wantConfirm: false,
		},
		{
			name:        "prefix without dash separator is not a filename date",
			filename:    "20230401invoice.pdf",
			lines:       []string{"dated 2023-04-02"},
			wantStamp:   "20230402",
			wantSource:  types.SourceTextScan,
			wantConfirm: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand, confirm := r.Resolve(entry(tt.filename), slices.Values(tt.lines))
			if cand.Stamp() != tt.wantStamp {
				t.Errorf("stamp = %s, want %s", cand.Stamp(), tt.wantStamp)
			}
			if cand.Source != tt.wantSource {
				t.Errorf("source = %q, want %q", cand.Source, tt.wantSource)
			}
			if confirm != tt.wantConfirm {
				t.Errorf("needsConfirmation = %v, want %v", confirm, tt.wantConfirm)
			}
		})
	}
}

func TestResolveStalenessDemotion(t *testing.T) {
	fixedNow(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC))
	var r Resolver

	// More than 365 days old: demoted to needs-confirmation but still the
	// suggested value.
	cand, confirm := r.Resolve(entry("old.pdf"), slices.Values([]string{"dated 2020-01-01"}))
	if !confirm {
		t.Error("stale text-scan candidate should need confirmation")
	}
	if cand.Stamp() != "20200101" {
		t.Errorf("stamp = %s, want 20200101", cand.Stamp())
	}
	if !cand.Confident {
		t.Error("demotion should not strip the candidate's confidence tag")
	}

	// Exactly 365 days is not stale: the comparison is strict.
	cand, confirm = r.Resolve(entry("edge.pdf"), slices.Values([]string{"dated 2022-06-15"}))
	if confirm {
		t.Errorf("candidate exactly at the window edge should not need confirmation (got %s)", cand.Stamp())
	}

	// A filename-derived date of the same age is never demoted.
	_, confirm = r.Resolve(entry("20200101-archive.pdf"), noLines())
	if confirm {
		t.Error("filename-derived candidates are trusted unconditionally")
	}

	// Future dates count too.
	_, confirm = r.Resolve(entry("future.pdf"), slices.Values([]string{"due 2025-01-01"}))
	if !confirm {
		t.Error("a far-future text-scan date should need confirmation")
	}
}

func TestResolveStalenessIgnoresTimeOfDay(t *testing.T) {
	fixedNow(t, time.Date(2023, 6, 15, 15, 4, 5, 0, time.UTC))
	var r Resolver

	// Exactly 365 calendar days old. The afternoon clock time pushes the
	// wall-clock difference past 365*24h; the day count must not care.
	cand, confirm := r.Resolve(entry("edge.pdf"), slices.Values([]string{"dated 2022-06-15"}))
	if confirm {
		t.Errorf("candidate exactly at the window edge should not need confirmation at any clock time (got %s)", cand.Stamp())
	}

	// One calendar day further is out.
	_, confirm = r.Resolve(entry("old.pdf"), slices.Values([]string{"dated 2022-06-14"}))
	if !confirm {
		t.Error("candidate one day past the window should need confirmation")
	}
}

func TestResolveReadsLinesLazily(t *testing.T) {
	fixedNow(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC))
	var r Resolver

	consumed := 0
	lines := func(yield func(string) bool) {
		all := []string{"header", "Date: 2023-05-20", "never read", "never read either"}
		for _, l := range all {
			consumed++
			if !yield(l) {
				return
			}
		}
	}

	cand, _ := r.Resolve(entry("doc.pdf"), lines)
	if cand.Stamp() != "20230520" {
		t.Fatalf("stamp = %s, want 20230520", cand.Stamp())
	}
	if consumed != 2 {
		t.Errorf("consumed %d lines, want 2 (short-circuit on first hit)", consumed)
	}
}

func TestResolveFilenameNeverTouchesLines(t *testing.T) {
	var r Resolver
	lines := func(yield func(string) bool) {
		t.Error("line sequence should not be consumed for a filename hit")
	}
	cand, _ := r.Resolve(entry("20230401-invoice.pdf"), lines)
	if cand.Stamp() != "20230401" {
		t.Errorf("stamp = %s, want 20230401", cand.Stamp())
	}
}
