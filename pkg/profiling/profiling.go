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

package profiling

import (
	"context"
	"os"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownMode is returned for a profile mode that is not supported.
var ErrUnknownMode = errors.Base("unknown profile mode")

var modes = map[string]func(*profile.Profile){
	"cpu":       profile.CPUProfile,
	"mem":       profile.MemProfile,
	"block":     profile.BlockProfile,
	"mutex":     profile.MutexProfile,
	"goroutine": profile.GoroutineProfile,
	"trace":     profile.TraceProfile,
}

// Stopper ends a profile and flushes it to disk.
type Stopper interface {
	Stop()
}

type noop struct{}

func (noop) Stop() {}

// ⏱️ Start begins capturing a profile of the given mode into dir. An empty
// mode disables profiling and returns a Stopper that does nothing.
func Start(ctx context.Context, mode, dir string) (Stopper, error) {
	if mode == "" {
		return noop{}, nil
	}
	opt, ok := modes[mode]
	if !ok {
		return nil, errors.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Errorf("resolving profile directory: %w", err)
		}
		dir = wd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Errorf("creating profile directory: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("mode", mode).Str("dir", dir).Msg("profiling enabled")

	return profile.Start(opt, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook), nil
}
