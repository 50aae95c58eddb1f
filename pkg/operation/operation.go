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

package operation

import (
	"context"
	"io"

	"github.com/walteh/gol/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Evaluator runs the user fragments against the shared state.
type Evaluator interface {
	Pre(ctx context.Context, s *state.State) error
	Line(ctx context.Context, s *state.State) error
	Post(ctx context.Context, s *state.State) error
}

// Mode selects where input lines come from.
type Mode int

const (
	// ModeStdin evaluates every line of stdin.
	ModeStdin Mode = iota
	// ModeReadPaths reads file paths from stdin, one per line, and evaluates
	// every line of each file.
	ModeReadPaths
	// ModeFiles evaluates every line of the files given as arguments.
	ModeFiles
)

func (m Mode) String() string {
	switch m {
	case ModeStdin:
		return "stdin"
	case ModeReadPaths:
		return "read-file-paths"
	case ModeFiles:
		return "files"
	default:
		return "unknown"
	}
}

// 📥 Source describes the input of a run.
type Source struct {
	Mode  Mode
	Stdin io.Reader
	// Paths is only used by ModeFiles.
	Paths []string
}

// 🔧 Options contains everything a Runner needs.
type Options struct {
	Evaluator Evaluator
	State     *state.State
}

// 📄 Result is the outcome of a single input.
type Result struct {
	Path    string
	Lines   int
	Skipped bool
	Reason  string
}

// 📊 Summary describes a finished run.
type Summary struct {
	Files   []string // files whose lines were evaluated
	Skipped []string // paths rejected by validation
	Lines   int      // lines evaluated across all inputs
	Results []Result // one entry per input, in order
}

// 🏭 NewRunner creates a runner.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Evaluator == nil {
		return nil, errors.Errorf("evaluator is required")
	}
	if opts.State == nil {
		opts.State = state.New()
	}
	return &Runner{
		eval:  opts.Evaluator,
		state: opts.State,
	}, nil
}
