// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
	"time"
)

// DateSource identifies which pipeline stage produced a date candidate.
type DateSource string

const (
	// SourceFilename is a date taken from a YYYYMMDD- filename prefix.
	SourceFilename DateSource = "filename"

	// SourceScannedPrefix is a date taken from a Scanned_YYYYMMDD- prefix.
	SourceScannedPrefix DateSource = "scanned-prefix"

	// SourceTextScan is a date recognized in the extracted document text.
	SourceTextScan DateSource = "text-scan"

	// SourceFSTimestamp is a fallback date from the file's timestamp.
	SourceFSTimestamp DateSource = "fs-timestamp"

	// SourceUser is a date entered by the operator at the prompt.
	SourceUser DateSource = "user"
)

// Date range accepted for candidates. Anything outside is discarded,
// never corrected.
const (
	MinYear = 1900
	MaxYear = 2050
)

// DateCandidate is a date proposed by one resolution stage for a single
// file. Candidates live only for the duration of that file's processing.
type DateCandidate struct {
	Year  int
	Month int
	Day   int

	// Source records which stage produced the candidate.
	Source DateSource

	// Confident is false when the value is only a suggestion that must be
	// confirmed by the operator before use.
	Confident bool
}

// Valid reports whether the candidate satisfies the accepted ranges:
// year 1900-2050, month 1-12, day 1-31.
func (d DateCandidate) Valid() bool {
	return d.Year >= MinYear && d.Year <= MaxYear &&
		d.Month >= 1 && d.Month <= 12 &&
		d.Day >= 1 && d.Day <= 31
}

// Stamp returns the candidate as a flat 8-digit YYYYMMDD string.
func (d DateCandidate) Stamp() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// Time returns the candidate as a UTC time at midnight.
func (d DateCandidate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// ParseStamp converts an 8-digit YYYYMMDD string into a candidate tagged
// with the given source. It returns an error when the input is not exactly
// 8 digits or the resulting date is out of range.
func ParseStamp(s string, source DateSource) (DateCandidate, error) {
	if len(s) != 8 {
		return DateCandidate{}, fmt.Errorf("date stamp %q is not 8 digits", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return DateCandidate{}, fmt.Errorf("date stamp %q is not 8 digits", s)
		}
	}
	y, _ := strconv.Atoi(s[:4])
	m, _ := strconv.Atoi(s[4:6])
	day, _ := strconv.Atoi(s[6:8])
	d := DateCandidate{Year: y, Month: m, Day: day, Source: source, Confident: true}
	if !d.Valid() {
		return DateCandidate{}, fmt.Errorf("date stamp %q is out of range", s)
	}
	return d, nil
}

// RawFileEntry describes a discovered PDF before processing. It is read
// once per pass and never mutated.
type RawFileEntry struct {
	// Path is the full path to the original file in the scan tree.
	Path string

	// Filename is the base name of the file.
	Filename string

	// CreationTime is the filesystem timestamp used as the last-resort
	// date suggestion.
	CreationTime time.Time
}

// RefileTarget is the computed destination for one refiled file. File is
// unique on disk at the time of computation.
type RefileTarget struct {
	// Folder is destRoot/YYYY/MM/DD.
	Folder string

	// File is the final destination path, disambiguated with a _<N>
	// suffix when the plain name is already taken.
	File string
}
