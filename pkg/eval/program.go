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

package eval

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"github.com/walteh/gol/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// Phase names the point of the run a fragment belongs to.
type Phase string

const (
	PhasePre  Phase = "pre"
	PhaseLine Phase = "line"
	PhasePost Phase = "post"
)

var funcNames = map[Phase]string{
	PhasePre:  "golPre",
	PhaseLine: "golLine",
	PhasePost: "golPost",
}

// Parameters every fragment function receives, in order. Each function
// recovers its own panics and returns them as text, so the interpreter never
// prints a trace for them.
const signature = `line string, lineNo int, buffer map[string]interface{}, fname string, fpath string, fields []string, re func(string) *regexp.Regexp, p func(...interface{}), pf func(string, ...interface{})`

// ErrUnknownImport is returned when a forced import is not a standard
// library package.
var ErrUnknownImport = errors.Base("unknown import")

// 🧩 Fragments holds the user code for each phase. Empty fragments do nothing.
type Fragments struct {
	Pre  string
	Line string
	Post string
}

func (f Fragments) get(phase Phase) string {
	switch phase {
	case PhasePre:
		return f.Pre
	case PhasePost:
		return f.Post
	default:
		return f.Line
	}
}

// 🔧 Options configures compilation.
type Options struct {
	// Imports are import paths added even when no fragment references them.
	Imports []string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// 🎯 Program is a compiled set of fragments.
type Program struct {
	funcs   map[Phase]reflect.Value
	stdout  io.Writer
	regexps map[string]*regexp.Regexp
	source  string
}

// FragmentError reports a failure while a fragment was running.
type FragmentError struct {
	Phase  Phase
	FName  string
	LineNo int
	Err    error
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("%s fragment failed at %s:%d: %v", e.Phase, e.FName, e.LineNo, e.Err)
}

func (e *FragmentError) Unwrap() error {
	return e.Err
}

// 🏗️ Compile builds every non-empty fragment once, in a single interpreter,
// so that the per-line cost is a plain function call.
func Compile(ctx context.Context, frags Fragments, opts Options) (*Program, error) {
	logger := zerolog.Ctx(ctx)

	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	src, err := generate(frags, opts.Imports)
	if err != nil {
		return nil, err
	}
	i := interp.New(interp.Options{
		Stdin:  opts.Stdin,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, errors.Errorf("loading stdlib: %w", err)
	}

	if _, err := i.EvalWithContext(ctx, src); err != nil {
		return nil, errors.Errorf("compiling fragments: %w", err)
	}

	prog := &Program{
		funcs:   map[Phase]reflect.Value{},
		stdout:  opts.Stdout,
		regexps: map[string]*regexp.Regexp{},
		source:  src,
	}
	for _, phase := range []Phase{PhasePre, PhaseLine, PhasePost} {
		if strings.TrimSpace(frags.get(phase)) == "" {
			continue
		}
		fn, err := i.Eval("main." + funcNames[phase])
		if err != nil {
			return nil, errors.Errorf("looking up %s fragment: %w", phase, err)
		}
		if fn.Kind() != reflect.Func {
			return nil, errors.Errorf("%s fragment compiled to %s, not a function", phase, fn.Kind())
		}
		prog.funcs[phase] = fn
		logger.Debug().Str("phase", string(phase)).Msg("fragment ready")
	}

	return prog, nil
}

// generate renders the fragments as a Go main package.
func generate(frags Fragments, forced []string) (string, error) {
	imports := map[string]stdPackage{}
	for _, path := range []string{"fmt", "regexp"} {
		if pkg, ok := lookupPath(path); ok {
			imports[pkg.path] = pkg
		}
	}

	for _, path := range forced {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		pkg, ok := lookupPath(path)
		if !ok {
			return "", errors.Errorf("%w: %q", ErrUnknownImport, path)
		}
		imports[pkg.path] = pkg
	}

	for _, phase := range []Phase{PhasePre, PhaseLine, PhasePost} {
		for _, pkg := range referencedPackages(frags.get(phase)) {
			if _, ok := imports[pkg.path]; !ok {
				imports[pkg.path] = pkg
			}
		}
	}

	paths := make([]string, 0, len(imports))
	for path := range imports {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString("package main\n\nimport (\n")
	for _, path := range paths {
		fmt.Fprintf(&b, "\t%q\n", path)
	}
	b.WriteString(")\n\n")

	for _, path := range paths {
		pkg := imports[path]
		if pkg.anchor != "" {
			fmt.Fprintf(&b, "var _ = %s.%s\n", pkg.name, pkg.anchor)
		}
	}

	for _, phase := range []Phase{PhasePre, PhaseLine, PhasePost} {
		code := frags.get(phase)
		if strings.TrimSpace(code) == "" {
			continue
		}
		fmt.Fprintf(&b, "\nfunc %s(%s) (golPanic string) {\n", funcNames[phase], signature)
		b.WriteString("\tdefer func() {\n\t\tif r := recover(); r != nil {\n\t\t\tgolPanic = \"panic: \" + fmt.Sprint(r)\n\t\t}\n\t}()\n")
		fmt.Fprintf(&b, "%s\n\treturn\n}\n", code)
	}

	return b.String(), nil
}

// Source returns the generated Go source, for debugging.
func (p *Program) Source() string {
	return p.source
}

// Has reports whether a fragment was given for phase.
func (p *Program) Has(phase Phase) bool {
	_, ok := p.funcs[phase]
	return ok
}

// Pre runs the pre fragment.
func (p *Program) Pre(ctx context.Context, s *state.State) error {
	return p.run(ctx, PhasePre, s)
}

// Line runs the per-line fragment against the current line of s.
func (p *Program) Line(ctx context.Context, s *state.State) error {
	return p.run(ctx, PhaseLine, s)
}

// Post runs the post fragment.
func (p *Program) Post(ctx context.Context, s *state.State) error {
	return p.run(ctx, PhasePost, s)
}

func (p *Program) run(ctx context.Context, phase Phase, s *state.State) (err error) {
	fn, ok := p.funcs[phase]
	if !ok {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.Errorf("running %s fragment: %w", phase, err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = &FragmentError{
				Phase:  phase,
				FName:  s.FName,
				LineNo: s.LineNo,
				Err:    errors.Errorf("panic: %v", r),
			}
		}
	}()

	out := fn.Call([]reflect.Value{
		reflect.ValueOf(s.Line),
		reflect.ValueOf(s.LineNo),
		reflect.ValueOf(s.Buffer),
		reflect.ValueOf(s.FName),
		reflect.ValueOf(s.FPath),
		reflect.ValueOf(strings.Fields(s.Line)),
		reflect.ValueOf(p.re),
		reflect.ValueOf(p.print),
		reflect.ValueOf(p.printf),
	})
	if len(out) == 1 && out[0].Kind() == reflect.String && out[0].String() != "" {
		return &FragmentError{
			Phase:  phase,
			FName:  s.FName,
			LineNo: s.LineNo,
			Err:    errors.New(out[0].String()),
		}
	}
	return nil
}

// re compiles pattern once per run. Invalid patterns panic like
// regexp.MustCompile and surface as a FragmentError.
func (p *Program) re(pattern string) *regexp.Regexp {
	if r, ok := p.regexps[pattern]; ok {
		return r
	}
	r := regexp.MustCompile(pattern)
	p.regexps[pattern] = r
	return r
}

func (p *Program) print(args ...interface{}) {
	fmt.Fprintln(p.stdout, args...)
}

func (p *Program) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.stdout, format, args...)
}
