package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/walteh/gol/cmd/gol/opts"
	"github.com/walteh/gol/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	console := log.NewConsole(stderr)

	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			console.Warning("interrupted")
			return 1
		case errors.Is(err, opts.ErrUsage):
			console.Errorf("%s (see gol --help)", err.Error())
			return 2
		}
		console.Error(err.Error())
		return 1
	}
	return 0
}
