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

package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// 🎚️ levels from most to least verbose. Each -v moves one step to the left,
// starting from the last entry.
var levels = []zerolog.Level{
	zerolog.DebugLevel,
	zerolog.InfoLevel,
	zerolog.WarnLevel,
	zerolog.ErrorLevel,
	zerolog.FatalLevel,
	zerolog.PanicLevel,
}

// LevelFor maps a count of -v flags to a log level.
func LevelFor(verbosity int) zerolog.Level {
	idx := len(levels) - 1 - verbosity
	if idx < 0 {
		idx = 0
	}
	if idx >= len(levels) {
		idx = len(levels) - 1
	}
	return levels[idx]
}

// IsTerminal reports whether w writes to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// 🏭 New creates the diagnostic logger. Timestamps are printed as
// milliseconds since start.
func New(w io.Writer, verbosity int, start time.Time) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:     w,
		NoColor: !IsTerminal(w),
		FormatTimestamp: func(interface{}) string {
			return fmt.Sprintf("%6d", time.Since(start).Milliseconds())
		},
	}
	return zerolog.New(cw).Level(LevelFor(verbosity)).With().Timestamp().Logger()
}

// 🎯 Console prints short user facing messages, independent of the log level.
type Console struct {
	out io.Writer
	mu  sync.Mutex
}

// 🏭 NewConsole creates a console. Colors are disabled when out is not a
// terminal.
func NewConsole(out io.Writer) *Console {
	if !IsTerminal(out) {
		color.NoColor = true
	}
	return &Console{out: out}
}

// 📝 Error prints an error line
func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("gol:"), color.New(color.FgRed).Sprint(msg))
}

// 📝 Errorf prints a formatted error line
func (c *Console) Errorf(format string, args ...interface{}) {
	c.Error(fmt.Sprintf(format, args...))
}

// 📝 Warning prints a warning line
func (c *Console) Warning(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", color.New(color.FgYellow, color.Bold).Sprint("gol:"), color.New(color.FgYellow).Sprint(msg))
}
