package opts

import (
	"github.com/spf13/pflag"
	"github.com/walteh/gol/pkg/config"
	"github.com/walteh/gol/pkg/eval"
	"github.com/walteh/gol/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// ErrUsage marks errors caused by invalid command line usage.
var ErrUsage = errors.Base("usage")

// RootOpts contains every option of the root command
type RootOpts struct {
	Pre           string
	Line          string
	Post          string
	Imports       []string
	ReadFilePaths bool
	KeepLineNo    bool
	Summary       bool
	Verbose       int
	Version       bool
	ConfigFile    string
	Profile       string
	ProfileDir    string
}

// AddFlags binds the options to fs
func (o *RootOpts) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Line, "line", "l", "", "Go code to run per input line")
	fs.StringVarP(&o.Pre, "pre", "b", "", "Go code to run before the first line")
	fs.StringVarP(&o.Post, "post", "e", "", "Go code to run after the last line")
	fs.BoolVarP(&o.ReadFilePaths, "read-file-paths", "r", false, "read file paths from stdin, one per line")
	fs.BoolVarP(&o.KeepLineNo, "keep-line-no", "k", false, "keep counting lines across files")
	fs.BoolVarP(&o.Summary, "summary", "s", false, "print a report of every input to stderr after the run")
	fs.StringSliceVarP(&o.Imports, "import", "i", nil, "standard library package to import (repeatable)")
	fs.CountVarP(&o.Verbose, "verbose", "v", "increase logging verbosity")
	fs.BoolVar(&o.Version, "version", false, "print version and exit")
	fs.StringVarP(&o.ConfigFile, "config", "c", "", "config file (.yaml, .yml, .json, .hcl); defaults to $"+config.EnvVar)
	fs.StringVar(&o.Profile, "profile", "", "capture a profile: cpu, mem, block, mutex, goroutine or trace")
	fs.StringVar(&o.ProfileDir, "profile-dir", "", "directory for profile output (default: current directory)")
}

// ApplyConfig fills every option that was not set on the command line from
// cfg. Imports from both sources are combined.
func (o *RootOpts) ApplyConfig(fs *pflag.FlagSet, cfg *config.Config) {
	if cfg == nil {
		return
	}
	str := func(name string, dst *string, val string) {
		if !fs.Changed(name) && val != "" {
			*dst = val
		}
	}
	str("pre", &o.Pre, cfg.Pre)
	str("line", &o.Line, cfg.Line)
	str("post", &o.Post, cfg.Post)
	str("profile", &o.Profile, cfg.Profile)
	str("profile-dir", &o.ProfileDir, cfg.ProfileDir)

	if !fs.Changed("read-file-paths") {
		o.ReadFilePaths = o.ReadFilePaths || cfg.ReadFilePaths
	}
	if !fs.Changed("keep-line-no") {
		o.KeepLineNo = o.KeepLineNo || cfg.KeepLineNo
	}
	if !fs.Changed("summary") {
		o.Summary = o.Summary || cfg.Summary
	}
	if !fs.Changed("verbose") {
		o.Verbose = cfg.Verbose
	}
	o.Imports = append(append([]string{}, cfg.Imports...), o.Imports...)
}

// Validate checks the options against the positional arguments
func (o *RootOpts) Validate(args []string) error {
	if o.ReadFilePaths && len(args) > 0 {
		return errors.Errorf("%w: file arguments cannot be combined with --read-file-paths", ErrUsage)
	}
	if o.Verbose < 0 {
		return errors.Errorf("%w: verbosity must not be negative", ErrUsage)
	}
	return nil
}

// Fragments returns the user code of the run
func (o *RootOpts) Fragments() eval.Fragments {
	return eval.Fragments{Pre: o.Pre, Line: o.Line, Post: o.Post}
}

// Mode returns where input lines come from
func (o *RootOpts) Mode(args []string) operation.Mode {
	switch {
	case o.ReadFilePaths:
		return operation.ModeReadPaths
	case len(args) > 0:
		return operation.ModeFiles
	default:
		return operation.ModeStdin
	}
}
