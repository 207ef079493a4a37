// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package confirm implements the operator-facing date confirmation prompt.
// It is the single blocking point in the pipeline: a plain synchronous read
// with no timeout and no retry cap.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pdiddy/refile-engine/pkg/types"
)

// Confirmer prompts a human operator to validate or override a suggested
// date. Input and output are injected so tests can drive the loop.
type Confirmer struct {
	in  *bufio.Reader
	out io.Writer

	// openFile opens a document in the platform viewer when the operator
	// enters "o". Nil disables the affordance.
	openFile func(path string) error
}

// New returns a Confirmer reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{
		in:       bufio.NewReader(in),
		out:      out,
		openFile: openWithViewer,
	}
}

// Confirm returns suggested unchanged when no confirmation is needed.
// Otherwise it prompts until the operator accepts the suggested default
// with an empty line or enters a valid 8-digit date. Entering "o" opens
// the file at path and re-prompts.
//
// The loop is unbounded on purpose; cancellation is an external signal,
// not a protocol of this component. An error is returned only when the
// input stream ends.
func (c *Confirmer) Confirm(path string, suggested types.DateCandidate, needed bool) (types.DateCandidate, error) {
	if !needed {
		return suggested, nil
	}

	for {
		fmt.Fprintf(c.out, "Please validate/enter the date for %s (YYYYMMDD) [Enter to accept '%s', 'o' to open]: ",
			path, suggested.Stamp())

		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			return types.DateCandidate{}, fmt.Errorf("reading confirmation input: %w", err)
		}
		input := strings.TrimSpace(line)

		switch {
		case input == "":
			// Accepting the default confirms the suggested value as-is.
			suggested.Confident = true
			return suggested, nil
		case strings.EqualFold(input, "o"):
			if c.openFile == nil {
				fmt.Fprintln(c.out, "Opening files is not supported here.")
				continue
			}
			if err := c.openFile(path); err != nil {
				fmt.Fprintf(c.out, "Could not open %s: %v\n", path, err)
			}
		default:
			cand, err := types.ParseStamp(input, types.SourceUser)
			if err != nil {
				fmt.Fprintf(c.out, "Invalid date %q: enter exactly 8 digits as YYYYMMDD.\n", input)
				continue
			}
			return cand, nil
		}
	}
}

// openWithViewer hands the file to the platform document opener.
func openWithViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
