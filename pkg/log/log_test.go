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
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{verbosity: -1, want: zerolog.PanicLevel},
		{verbosity: 0, want: zerolog.PanicLevel},
		{verbosity: 1, want: zerolog.FatalLevel},
		{verbosity: 2, want: zerolog.ErrorLevel},
		{verbosity: 3, want: zerolog.WarnLevel},
		{verbosity: 4, want: zerolog.InfoLevel},
		{verbosity: 5, want: zerolog.DebugLevel},
		{verbosity: 12, want: zerolog.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, 3, time.Now())

	logger.Info().Msg("hidden")
	logger.Warn().Str("path", "x.txt").Msg("skipping")

	out := buf.String()
	assert.NotContains(t, out, "hidden", "info is below -vvv")
	assert.Contains(t, out, "skipping")
	assert.Contains(t, out, "path=x.txt")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestConsole(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Errorf("compiling fragments: %s", "bad")
	c.Warning("careful")

	assert.Equal(t, "gol: compiling fragments: bad\ngol: careful\n", buf.String())
	assert.False(t, IsTerminal(&buf))
}
