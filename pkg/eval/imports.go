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
	"go/scanner"
	"go/token"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/traefik/yaegi/stdlib"
)

// preferredPaths settles package names that more than one standard library
// package shares.
var preferredPaths = map[string]string{
	"rand":     "math/rand",
	"template": "text/template",
	"scanner":  "text/scanner",
	"pprof":    "runtime/pprof",
	"parser":   "go/parser",
}

// 📚 stdPackage describes one importable standard library package.
type stdPackage struct {
	path string
	name string
	// anchor is an exported function used to keep the import referenced.
	anchor string
}

var (
	stdOnce   sync.Once
	stdByName map[string]stdPackage
	stdByPath map[string]stdPackage
)

func loadStd() {
	stdByName = map[string]stdPackage{}
	stdByPath = map[string]stdPackage{}

	for key, syms := range stdlib.Symbols {
		idx := strings.LastIndex(key, "/")
		if idx < 0 {
			continue
		}
		pkg := stdPackage{path: key[:idx], name: key[idx+1:], anchor: anchorOf(syms)}
		if strings.Contains(pkg.path, "internal") {
			continue
		}
		stdByPath[pkg.path] = pkg

		prev, ok := stdByName[pkg.name]
		switch {
		case preferredPaths[pkg.name] == pkg.path:
			stdByName[pkg.name] = pkg
		case !ok:
			stdByName[pkg.name] = pkg
		case preferredPaths[pkg.name] == prev.path:
		case len(pkg.path) < len(prev.path), len(pkg.path) == len(prev.path) && pkg.path < prev.path:
			stdByName[pkg.name] = pkg
		}
	}
}

// anchorOf picks the first exported function of a package, in name order.
func anchorOf(syms map[string]reflect.Value) string {
	names := make([]string, 0, len(syms))
	for name, v := range syms {
		if strings.HasPrefix(name, "_") || !v.IsValid() || v.Kind() != reflect.Func {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}

func lookupName(name string) (stdPackage, bool) {
	stdOnce.Do(loadStd)
	pkg, ok := stdByName[name]
	return pkg, ok
}

func lookupPath(path string) (stdPackage, bool) {
	stdOnce.Do(loadStd)
	pkg, ok := stdByPath[path]
	return pkg, ok
}

// 🔍 referencedPackages returns the standard library packages a fragment
// refers to through a qualified identifier such as strings.ToUpper.
//
// Identifiers that follow a period are field or method selectors and are
// ignored, so x.strings.Y does not import strings.
func referencedPackages(src string) []stdPackage {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var s scanner.Scanner
	// errors are reported by the interpreter with better context
	s.Init(file, []byte(src), nil, 0)

	seen := map[string]bool{}
	var out []stdPackage

	prev := token.ILLEGAL
	var pending string
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if pending != "" && tok == token.PERIOD && !seen[pending] {
			if pkg, ok := lookupName(pending); ok {
				seen[pending] = true
				out = append(out, pkg)
			}
		}
		pending = ""
		if tok == token.IDENT && prev != token.PERIOD {
			pending = lit
		}
		prev = tok
	}
	return out
}
