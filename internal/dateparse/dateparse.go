// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dateparse recognizes date stamps in free text lines and
// normalizes them to YYYYMMDD candidates.
// Implements: prd011-date-resolution (R1);
//
//	docs/ARCHITECTURE § Date Parsing.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/refile-engine/pkg/types"
)

// DefaultYearPivot is the fixed cutoff for two-digit year expansion.
const DefaultYearPivot = 50

var (
	// delimSpace collapses optional whitespace around date delimiters so
	// "12 / 03 / 2020" and "12/03/2020" are treated identically.
	delimSpace = regexp.MustCompile(`[ \t]*([-./])[ \t]*`)

	// dateToken matches the shape D{2,4}<delim>D{2}<delim>D{2,4}. The two
	// delimiters must be the same character; that is checked separately.
	dateToken = regexp.MustCompile(`^(\d{2,4})([-./])(\d{2})([-./])(\d{2,4})$`)
)

// Parser extracts dates from free text. OCR output is noisy and ambiguous
// between US and European ordering. A four-digit leading component is always
// year-first; otherwise the delimiter is the locale signal: "/" means
// month/day/year, "-" and "." mean day/month/year.
type Parser struct {
	// YearPivot controls two-digit year expansion: values strictly greater
	// than the pivot become 19xx, the rest 20xx. Zero means DefaultYearPivot.
	YearPivot int
}

// Parse scans line for the first token shaped like a date and returns the
// normalized candidate, tagged as a text scan. The second return value is
// false when the line contains no parseable date.
func (p Parser) Parse(line string) (types.DateCandidate, bool) {
	line = delimSpace.ReplaceAllString(line, "$1")

	for _, tok := range strings.Fields(line) {
		m := dateToken.FindStringSubmatch(tok)
		if m == nil || m[2] != m[4] {
			continue
		}
		// First token of the right shape decides the outcome: a range
		// violation means no match for the whole line, not a continued scan.
		return p.interpret(m[1], m[3], m[5], m[2])
	}
	return types.DateCandidate{}, false
}

// interpret orders the three components according to the delimiter and
// validates the result.
func (p Parser) interpret(first, mid, last, delim string) (types.DateCandidate, bool) {
	var yearTok, monthTok, dayTok string
	switch {
	case len(first) == 4:
		yearTok, monthTok, dayTok = first, mid, last
	case delim == "/":
		// US convention.
		monthTok, dayTok, yearTok = first, mid, last
	default:
		// European convention.
		dayTok, monthTok, yearTok = first, mid, last
	}

	// Base-10 throughout so zero-padded values like "08" are not misread.
	year, err := strconv.Atoi(yearTok)
	if err != nil {
		return types.DateCandidate{}, false
	}
	month, err := strconv.Atoi(monthTok)
	if err != nil {
		return types.DateCandidate{}, false
	}
	day, err := strconv.Atoi(dayTok)
	if err != nil {
		return types.DateCandidate{}, false
	}

	if len(yearTok) == 2 {
		year = p.expandYear(year)
	}

	cand := types.DateCandidate{
		Year:      year,
		Month:     month,
		Day:       day,
		Source:    types.SourceTextScan,
		Confident: true,
	}
	if !cand.Valid() {
		return types.DateCandidate{}, false
	}
	return cand, true
}

// expandYear applies the fixed pivot: >pivot maps to 19xx, the rest to 20xx.
func (p Parser) expandYear(y int) int {
	pivot := p.YearPivot
	if pivot == 0 {
		pivot = DefaultYearPivot
	}
	if y > pivot {
		return 1900 + y
	}
	return 2000 + y
}
