// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
	"golang.org/x/term"

	"github.com/tfctl/cromwell-infra/internal/log"
)

// ErrEmpty is returned when either side of a comparison is empty.
var ErrEmpty = errors.New("nothing to compare")

// Options tunes the rendered delta.
type Options struct {
	Color bool
	// Ignore lists top-level template sections left out of the comparison,
	// e.g. "Metadata" or "Parameters".
	Ignore []string
}

// ColorDefault reports whether stdout is a terminal.
func ColorDefault() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Diff compares two JSON templates and writes an ASCII delta to w. It returns
// true when the templates differ.
func Diff(w io.Writer, before, after []byte, opts Options) (bool, error) {
	if len(before) == 0 || len(after) == 0 {
		return false, ErrEmpty
	}
	log.Debugf("comparing templates: before=%d after=%d", len(before), len(after))

	left, err := decode(before, opts.Ignore)
	if err != nil {
		return false, fmt.Errorf("failed to parse previous template: %w", err)
	}
	right, err := decode(after, opts.Ignore)
	if err != nil {
		return false, fmt.Errorf("failed to parse current template: %w", err)
	}

	delta := gojsondiff.New().CompareObjects(left, right)
	if !delta.Modified() {
		fmt.Fprintln(w, "The templates are identical.")
		return false, nil
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       opts.Color,
	}

	diffString, err := formatter.NewAsciiFormatter(left, config).Format(delta)
	if err != nil {
		return true, err
	}

	fmt.Fprintln(w, diffString)
	return true, nil
}

func decode(b []byte, ignore []string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	for _, key := range ignore {
		delete(doc, key)
	}
	return doc, nil
}
