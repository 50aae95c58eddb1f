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

package input

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// MaxLineSize is the longest line the scanner accepts.
const MaxLineSize = 64 * 1024 * 1024

var (
	ErrNotExist = errors.Base("does not exist")
	ErrNotFile  = errors.Base("is not a file")
)

// 📜 ScanLines calls fn for every line of r, without its line terminator.
// A final line without a trailing newline is still delivered.
func ScanLines(ctx context.Context, r io.Reader, fn func(line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("scanning lines: %w", err)
		}
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Errorf("reading lines: %w", err)
	}
	return nil
}

// 📥 ReadPaths calls fn for each path read from r, one per line, as soon as
// the line arrives. Surrounding whitespace is trimmed and blank lines are
// skipped.
func ReadPaths(ctx context.Context, r io.Reader, fn func(path string) error) error {
	return ScanLines(ctx, r, func(line string) error {
		p := strings.TrimSpace(line)
		if p == "" {
			return nil
		}
		return fn(p)
	})
}

// 🌟 Expand resolves glob patterns (including **) in args. An arg that names
// an existing path is taken literally, even when it contains glob
// characters. Plain paths and patterns that match nothing are returned
// unchanged so that validation can report them.
func Expand(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if !hasMeta(arg) || exists(arg) {
			out = append(out, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", arg, err)
		}
		if len(matches) == 0 {
			out = append(out, arg)
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// 🔍 Validate checks that path names an existing regular file (or a symlink
// to one).
func Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.Errorf("%s %w", path, ErrNotExist)
		}
		return errors.Errorf("checking %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return errors.Errorf("%s %w", path, ErrNotFile)
	}
	return nil
}

// 📂 EachLine opens path and calls fn for each of its lines.
func EachLine(ctx context.Context, path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return ScanLines(ctx, f, fn)
}
