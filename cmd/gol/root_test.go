package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gol/cmd/gol/opts"
	"github.com/walteh/gol/pkg/config"
	"gitlab.com/tozd/go/errors"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func runGol(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRoot(t *testing.T) {
	t.Setenv(config.EnvVar, "")

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "one\ntwo\n")
	b := writeFile(t, dir, "nested/b.txt", "three\n")

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "no_fragments_is_a_no_op",
			stdin: "a\nb\n",
			want:  "",
		},
		{
			name:  "per_line",
			stdin: "a\nb\n",
			args:  []string{"-l", "p(strings.ToUpper(line))"},
			want:  "A\nB\n",
		},
		{
			name:  "sum_with_pre_and_post",
			stdin: "1\n2\n3\n",
			args: []string{
				"-b", `buffer["sum"] = 0`,
				"-l", `n, _ := strconv.Atoi(line); buffer["sum"] = buffer["sum"].(int) + n`,
				"-e", `p("sum", buffer["sum"])`,
			},
			want: "sum 6\n",
		},
		{
			name: "file_arguments",
			args: []string{"-l", `pf("%s %d %s\n", fname, lineNo, line)`, a, b},
			want: "a.txt 0 one\na.txt 1 two\nb.txt 0 three\n",
		},
		{
			name: "file_arguments_keep_line_no",
			args: []string{"-k", "-l", `pf("%d\n", lineNo)`, a, b},
			want: "0\n1\n2\n",
		},
		{
			name: "glob_argument",
			args: []string{"-l", `p(line)`, filepath.Join(dir, "**", "b.txt")},
			want: "three\n",
		},
		{
			name:  "read_file_paths",
			stdin: a + "\n" + filepath.Join(dir, "missing.txt") + "\n" + b + "\n",
			args:  []string{"-r", "-l", `p(fname, line)`},
			want:  "a.txt one\na.txt two\nb.txt three\n",
		},
		{
			name:  "post_without_input",
			stdin: "",
			args:  []string{"-e", `p("lines:", len(buffer))`},
			want:  "lines: 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runGol(t, tt.stdin, tt.args...)
			require.NoError(t, res.err, "stderr: %s", res.stderr)
			assert.Equal(t, tt.want, res.stdout)
		})
	}
}

func TestRootErrors(t *testing.T) {
	t.Setenv(config.EnvVar, "")

	tests := []struct {
		name        string
		stdin       string
		args        []string
		usage       bool
		errContains string
	}{
		{
			name:        "paths_and_args",
			args:        []string{"-r", "a.txt"},
			usage:       true,
			errContains: "cannot be combined",
		},
		{
			name:        "unknown_flag",
			args:        []string{"--nope"},
			usage:       true,
			errContains: "unknown flag",
		},
		{
			name:        "bad_profile",
			args:        []string{"--profile", "gpu"},
			usage:       true,
			errContains: "unknown profile mode",
		},
		{
			name:        "compile_error",
			args:        []string{"-l", "p(line"},
			errContains: "compiling fragments",
		},
		{
			name:        "runtime_panic",
			stdin:       "x\n",
			args:        []string{"-l", `var m map[string]int; m[line] = 1`},
			errContains: "line fragment failed at <stdin>:0",
		},
		{
			name:        "missing_config",
			args:        []string{"-c", filepath.Join(t.TempDir(), "none.yaml")},
			errContains: "loading config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runGol(t, tt.stdin, tt.args...)
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.errContains)
			assert.Equal(t, tt.usage, errors.Is(res.err, opts.ErrUsage), "usage error")
		})
	}
}

func TestRootConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "gol.yaml", "line: p(\"cfg\", line)\npost: p(\"end\")\n")

	res := runGol(t, "x\n", "-c", cfgPath)
	require.NoError(t, res.err)
	assert.Equal(t, "cfg x\nend\n", res.stdout)

	res = runGol(t, "x\n", "-c", cfgPath, "-l", "p(\"flag\", line)")
	require.NoError(t, res.err)
	assert.Equal(t, "flag x\nend\n", res.stdout, "flags win over config")

	t.Setenv(config.EnvVar, cfgPath)
	res = runGol(t, "y\n")
	require.NoError(t, res.err)
	assert.Equal(t, "cfg y\nend\n", res.stdout, "config from environment")
}

func TestVersion(t *testing.T) {
	t.Setenv(config.EnvVar, "")

	res := runGol(t, "", "--version")
	require.NoError(t, res.err)
	assert.Equal(t, VersionLine()+"\n", res.stdout)
	assert.True(t, strings.HasPrefix(res.stdout, "gol (Go One-Liner) "))

	pterm.DisableColor()
	defer pterm.EnableColor()

	res = runGol(t, "", "--version", "-v")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, Name)
	assert.Contains(t, res.stdout, runtime.Version())
	assert.Contains(t, res.stdout, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersionRevision(t *testing.T) {
	tests := []struct {
		name string
		info VersionInfo
		want string
	}{
		{name: "no_vcs_info", info: VersionInfo{}, want: "unknown"},
		{name: "clean", info: VersionInfo{VCS: "git", Revision: "abc123"}, want: "git abc123"},
		{name: "modified", info: VersionInfo{VCS: "git", Revision: "abc123", Modified: true}, want: "git abc123 (modified)"},
		{name: "revision_only", info: VersionInfo{Revision: "abc123"}, want: "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.revision())
		})
	}
}

func TestVersionIgnoresConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.yaml")
	t.Setenv(config.EnvVar, missing)

	res := runGol(t, "", "--version")
	require.NoError(t, res.err)
	assert.Equal(t, VersionLine()+"\n", res.stdout)

	res = runGol(t, "", "--version", "-c", missing)
	require.NoError(t, res.err)
	assert.Equal(t, VersionLine()+"\n", res.stdout)
}

func TestPanicStderr(t *testing.T) {
	t.Setenv(config.EnvVar, "")

	res := runGol(t, "a\nb\n", "-l", `fmt.Fprintln(os.Stderr, "saw", line); if lineNo == 1 { panic("stop") }`)
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "line fragment failed at <stdin>:1: panic: stop")
	assert.Equal(t, "saw a\nsaw b\n", res.stderr)
}

func TestSummary(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	color.NoColor = true
	defer func() { color.NoColor = false }()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "one\ntwo\n")
	missing := filepath.Join(dir, "missing.txt")

	res := runGol(t, "", "-s", "-l", "p(line)", a, missing)
	require.NoError(t, res.err)
	assert.Equal(t, "one\ntwo\n", res.stdout)
	assert.Contains(t, res.stderr, "✓ "+a)
	assert.Contains(t, res.stderr, "✗ "+missing)
	assert.Contains(t, res.stderr, "skipped: does not exist")
	assert.Contains(t, res.stderr, "1 input, 2 lines, 1 skipped")
}

func TestVerboseLogsSkippedFiles(t *testing.T) {
	t.Setenv(config.EnvVar, "")

	missing := filepath.Join(t.TempDir(), "missing.txt")

	res := runGol(t, missing+"\n", "-r", "-vvv")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "does not exist")

	res = runGol(t, missing+"\n", "-r")
	require.NoError(t, res.err)
	assert.NotContains(t, res.stderr, "does not exist", "warnings are hidden by default")
}
