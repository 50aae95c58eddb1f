package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/gol/cmd/gol/opts"
	"github.com/walteh/gol/pkg/config"
	"github.com/walteh/gol/pkg/eval"
	"github.com/walteh/gol/pkg/log"
	"github.com/walteh/gol/pkg/operation"
	"github.com/walteh/gol/pkg/profiling"
	"github.com/walteh/gol/pkg/state"
	"github.com/walteh/gol/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd creates the gol command reading from stdin and writing to
// stdout and stderr
func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	o := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "gol [flags] [file|glob ...]",
		Short: "Run Go one-liners over the lines of stdin or files",
		Long: `gol evaluates Go code for every input line.

Inside the code the following names are bound:
  line     the current line, without its newline
  lineNo   0-based line counter (restarts per file unless --keep-line-no)
  buffer   map[string]interface{} kept for the whole run
  fname    base name of the current file ("<stdin>" for stdin)
  fpath    path of the current file
  fields   strings.Fields(line)
  re       func(pattern string) *regexp.Regexp, compiled once per pattern
  p        fmt.Println to stdout
  pf       fmt.Printf to stdout

Standard library packages used as pkg.Name are imported automatically.
--pre runs before the first line and --post after the last one.`,
		Example: `  seq 1 5 | gol -b 'buffer["sum"] = 0' -l 'n, _ := strconv.Atoi(line); buffer["sum"] = buffer["sum"].(int) + n' -e 'p(buffer["sum"])'
  gol -l 'if re("ERROR").MatchString(line) { pf("%s:%d %s\n", fname, lineNo, line) }' 'logs/**/*.log'
  find . -name '*.go' | gol -r -e 'p(len(buffer))' -l 'buffer[fpath] = true'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, args, stdin, stdout, stderr)
		},
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Errorf("%w: %s", opts.ErrUsage, err.Error())
	})

	o.AddFlags(cmd.Flags())

	return cmd
}

func run(cmd *cobra.Command, o *opts.RootOpts, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	start := time.Now()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if o.Version {
		if o.Verbose > 0 {
			_, err := fmt.Fprint(stdout, FormatVersion())
			return err
		}
		_, err := fmt.Fprintln(stdout, VersionLine())
		return err
	}

	var cfg *config.Config
	cfgFile := o.ConfigFile
	if cfgFile == "" {
		cfgFile = os.Getenv(config.EnvVar)
	}
	if cfgFile != "" {
		if cfg, err = config.Load(ctx, cfgFile); err != nil {
			return errors.Errorf("loading config: %w", err)
		}
		o.ApplyConfig(cmd.Flags(), cfg)
	}

	logger := log.New(stderr, o.Verbose, start)
	ctx = logger.WithContext(ctx)

	if cfg != nil {
		logger.Debug().Str("path", cfg.Location()).Stringer("config", cfg).Msg("loaded config")
	}

	if err := o.Validate(args); err != nil {
		return err
	}

	prof, err := profiling.Start(ctx, o.Profile, o.ProfileDir)
	if err != nil {
		return errors.Errorf("%w: %s", opts.ErrUsage, err.Error())
	}
	defer prof.Stop()

	out := bufio.NewWriter(stdout)
	defer func() {
		if ferr := out.Flush(); ferr != nil && err == nil {
			err = errors.Errorf("flushing output: %w", ferr)
		}
	}()

	prog, err := eval.Compile(ctx, o.Fragments(), eval.Options{
		Imports: o.Imports,
		Stdin:   stdin,
		Stdout:  out,
		Stderr:  stderr,
	})
	if err != nil {
		return err
	}
	logger.Debug().
		Bool("pre", prog.Has(eval.PhasePre)).
		Bool("line", prog.Has(eval.PhaseLine)).
		Bool("post", prog.Has(eval.PhasePost)).
		Str("source", prog.Source()).
		Msg("compiled fragments")

	runner, err := operation.NewRunner(operation.Options{
		Evaluator: prog,
		State:     state.New(state.WithKeepLineNo(o.KeepLineNo)),
	})
	if err != nil {
		return errors.Errorf("creating runner: %w", err)
	}

	sum, err := runner.Run(ctx, operation.Source{
		Mode:  o.Mode(args),
		Stdin: stdin,
		Paths: args,
	})
	if err != nil {
		return err
	}

	if o.Summary {
		entries := make([]status.Entry, 0, len(sum.Results))
		for _, r := range sum.Results {
			entries = append(entries, status.Entry{Path: r.Path, Lines: r.Lines, Skipped: r.Skipped, Reason: r.Reason})
		}
		if err := out.Flush(); err != nil {
			return errors.Errorf("flushing output: %w", err)
		}
		if err := status.Report(stderr, status.NewDefaultFileFormatter(), entries); err != nil {
			return errors.Errorf("writing summary: %w", err)
		}
	}

	zerolog.Ctx(ctx).Info().
		Int("lines", sum.Lines).
		Int("files", len(sum.Files)).
		Strs("skipped", sum.Skipped).
		Dur("elapsed", time.Since(start)).
		Msg("done")

	return nil
}
