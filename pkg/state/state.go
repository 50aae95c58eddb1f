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

package state

import (
	"path/filepath"
)

// StdinName is the file name and path reported while reading standard input.
const StdinName = "<stdin>"

// 📦 State is the mutable execution context shared by every fragment of a run.
//
// A single State lives for the whole run. Buffer is never replaced, so
// anything a fragment stores in it is visible to later lines, later files
// and the post fragment.
type State struct {
	Line   string                 // current line without its line terminator
	LineNo int                    // 0-based index of Line
	Buffer map[string]interface{} // scratch space owned by the user fragments
	FName  string                 // base name of the active file
	FPath  string                 // path of the active file as given

	keepLineNo bool
	total      int
}

// Option configures a State.
type Option func(*State)

// WithKeepLineNo makes LineNo keep counting across files instead of
// restarting at 0 for each one.
func WithKeepLineNo(keep bool) Option {
	return func(s *State) {
		s.keepLineNo = keep
	}
}

// 🏭 New creates a state bound to standard input.
func New(opts ...Option) *State {
	s := &State{
		Buffer: map[string]interface{}{},
		FName:  StdinName,
		FPath:  StdinName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// 📂 EnterFile switches the active file.
func (s *State) EnterFile(path string) {
	s.FPath = path
	s.FName = filepath.Base(path)
	if !s.keepLineNo {
		s.LineNo = 0
	}
}

// Advance makes line the current line.
func (s *State) Advance(line string) {
	s.Line = line
}

// Done moves the counter past the current line.
func (s *State) Done() {
	s.LineNo++
	s.total++
}

// Total is the number of lines processed during the whole run, regardless
// of per-file counter resets.
func (s *State) Total() int {
	return s.total
}

// KeepsLineNo reports whether the counter persists across files.
func (s *State) KeepsLineNo() bool {
	return s.keepLineNo
}

// Snapshot returns a shallow copy. The buffer map is shared with s.
func (s *State) Snapshot() State {
	return *s
}
