package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/walteh/gol/pkg/config"
)

func TestExecute(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	color.NoColor = true
	defer func() { color.NoColor = false }()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name       string
		ctx        context.Context
		stdin      string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "success",
			ctx:        context.Background(),
			stdin:      "a\n",
			args:       []string{"-l", "p(line)"},
			wantCode:   0,
			wantStdout: "a\n",
		},
		{
			name:       "usage_error",
			ctx:        context.Background(),
			args:       []string{"-r", "file.txt"},
			wantCode:   2,
			wantStderr: "(see gol --help)",
		},
		{
			name:       "fragment_error",
			ctx:        context.Background(),
			stdin:      "x\n",
			args:       []string{"-l", `panic("no")`},
			wantCode:   1,
			wantStderr: "gol: line fragment failed at <stdin>:0: panic: no",
		},
		{
			name:       "interrupted",
			ctx:        cancelled,
			stdin:      "a\nb\n",
			args:       []string{"-l", "p(line)"},
			wantCode:   1,
			wantStderr: "gol: interrupted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := execute(tt.ctx, tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code, "stderr: %s", stderr.String())
			assert.Equal(t, tt.wantStdout, stdout.String())
			if tt.wantStderr == "" {
				assert.Empty(t, stderr.String())
				return
			}
			assert.Contains(t, stderr.String(), tt.wantStderr)
		})
	}
}
