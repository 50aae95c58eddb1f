// Package eval compiles user supplied Go fragments with an embedded
// interpreter and runs them against a [state.State].
//
// Each fragment becomes the body of a function whose parameters are the
// names visible to the user (line, lineNo, buffer, fname, fpath, fields,
// re, p, pf). Standard library packages referenced by a fragment are
// imported automatically.
package eval
