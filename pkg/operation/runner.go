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

	"github.com/rs/zerolog"
	"github.com/walteh/gol/pkg/input"
	"github.com/walteh/gol/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// 🏃 Runner drives one run: pre, every input line, post.
type Runner struct {
	eval  Evaluator
	state *state.State
}

// State returns the state shared by the fragments.
func (r *Runner) State() *state.State {
	return r.state
}

// 🏃 Run executes the fragments over src. The first fragment error stops the
// run and post is not executed.
func (r *Runner) Run(ctx context.Context, src Source) (*Summary, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Stringer("mode", src.Mode).
		Bool("keep_line_no", r.state.KeepsLineNo()).
		Msg("starting run")

	sum := &Summary{}

	if err := r.eval.Pre(ctx, r.state); err != nil {
		return sum, errors.Errorf("running pre fragment: %w", err)
	}

	switch src.Mode {
	case ModeStdin:
		if err := r.lines(ctx, sum, src.Stdin); err != nil {
			return sum, err
		}
	case ModeReadPaths:
		logger.Info().Msg("reading file paths from stdin, one per line")
		if src.Stdin == nil {
			return sum, errors.Errorf("no input reader")
		}
		err := input.ReadPaths(ctx, src.Stdin, func(path string) error {
			return r.file(ctx, sum, path)
		})
		if err != nil {
			return sum, err
		}
	case ModeFiles:
		paths, err := input.Expand(src.Paths)
		if err != nil {
			return sum, err
		}
		if err := r.files(ctx, sum, paths); err != nil {
			return sum, err
		}
	default:
		return sum, errors.Errorf("unknown input mode %d", src.Mode)
	}

	if err := r.eval.Post(ctx, r.state); err != nil {
		return sum, errors.Errorf("running post fragment: %w", err)
	}

	logger.Debug().
		Int("lines", r.state.Total()).
		Int("files", len(sum.Files)).
		Int("skipped", len(sum.Skipped)).
		Msg("run complete")

	return sum, nil
}

func (r *Runner) files(ctx context.Context, sum *Summary, paths []string) error {
	for _, path := range paths {
		if err := r.file(ctx, sum, path); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) file(ctx context.Context, sum *Summary, path string) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("next file")

	if err := input.Validate(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("skipping")
		sum.Skipped = append(sum.Skipped, path)
		sum.Results = append(sum.Results, Result{Path: path, Skipped: true, Reason: skipReason(err)})
		return nil
	}

	r.state.EnterFile(path)
	sum.Files = append(sum.Files, path)

	before := sum.Lines
	err := input.EachLine(ctx, path, func(line string) error {
		return r.line(ctx, sum, line)
	})
	sum.Results = append(sum.Results, Result{Path: path, Lines: sum.Lines - before})
	if err != nil {
		return errors.Errorf("processing %s: %w", path, err)
	}
	return nil
}

func (r *Runner) lines(ctx context.Context, sum *Summary, src io.Reader) error {
	if src == nil {
		return errors.Errorf("no input reader")
	}
	err := input.ScanLines(ctx, src, func(line string) error {
		return r.line(ctx, sum, line)
	})
	sum.Results = append(sum.Results, Result{Path: state.StdinName, Lines: sum.Lines})
	if err != nil {
		return errors.Errorf("processing %s: %w", state.StdinName, err)
	}
	return nil
}

func (r *Runner) line(ctx context.Context, sum *Summary, line string) error {
	r.state.Advance(line)
	if err := r.eval.Line(ctx, r.state); err != nil {
		return err
	}
	r.state.Done()
	sum.Lines++
	return nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, input.ErrNotExist):
		return input.ErrNotExist.Error()
	case errors.Is(err, input.ErrNotFile):
		return input.ErrNotFile.Error()
	default:
		return err.Error()
	}
}
