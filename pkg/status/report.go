// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 35 // Base width for filename
)

// 📄 Entry is the outcome of one input of a run
type Entry struct {
	Path    string
	Lines   int
	Skipped bool
	Reason  string // why the input was skipped
}

// FileFormatter defines the interface for formatting run reports
type FileFormatter interface {
	// FormatEntry formats the outcome of one input
	FormatEntry(e Entry) string
	// FormatTotals formats the closing line of the report
	FormatTotals(files, skipped, lines int) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// 🎯 FormatEntry formats an input with a ✓ or ✗ marker
func (f *DefaultFileFormatter) FormatEntry(e Entry) string {
	prefix := color.GreenString("✓")
	detail := plural(e.Lines, "line")
	if e.Skipped {
		prefix = color.RedString("✗")
		detail = color.YellowString("skipped: %s", e.Reason)
	}

	return fmt.Sprintf("%s%s %-*s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		nameWidth, e.Path,
		detail,
	)
}

// FormatTotals formats the totals of a run
func (f *DefaultFileFormatter) FormatTotals(files, skipped, lines int) string {
	msg := fmt.Sprintf("%s, %s", plural(files, "input"), plural(lines, "line"))
	if skipped > 0 {
		return fmt.Sprintf("⚠️  %s, %s", msg, color.YellowString("%d skipped", skipped))
	}
	return fmt.Sprintf("✅ %s", msg)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// 📝 Report writes one line per entry followed by the totals
func Report(w io.Writer, f FileFormatter, entries []Entry) error {
	var files, skipped, lines int
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, f.FormatEntry(e)); err != nil {
			return err
		}
		if e.Skipped {
			skipped++
			continue
		}
		files++
		lines += e.Lines
	}
	_, err := fmt.Fprintln(w, f.FormatTotals(files, skipped, lines))
	return err
}
