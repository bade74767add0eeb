package cmd

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/warpdl/autoattend/common"
)

// captureOutput captures stdout and stderr during function execution.
func captureOutput(f func()) (stdout, stderr string) {
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	outC := make(chan string)
	errC := make(chan string)
	go func() {
		var b bytes.Buffer
		io.Copy(&b, rOut)
		outC <- b.String()
	}()
	go func() {
		var b bytes.Buffer
		io.Copy(&b, rErr)
		errC <- b.String()
	}()

	f()

	wOut.Close()
	wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr
	return <-outC, <-errC
}

// assertContains checks if output contains the expected substring.
func assertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

// newContext creates a CLI context for testing commands.
func newContext(app *cli.App, args []string, name string, flags ...cli.Flag) *cli.Context {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	for _, f := range flags {
		f.Apply(set)
	}
	_ = set.Parse(args)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: name}
	return ctx
}

const testConfig = `
calendar:
  Monday:
    - join: "08:00"
      leave: "08:30"
      link: "https://meet.example/mon"
    - join: "13:00"
      leave: "14:00"
      link: "https://meet.example/mon-pm"
holidays: ["2025-10-21"]
semester_end: "2026-11-24"
`

// setupConfigDir points the config dir at a temp dir holding body as
// config.yaml on the real filesystem.
func setupConfigDir(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(common.ConfigDirEnv, dir)
	t.Setenv(common.ConfigFileEnv, "")
	t.Setenv(common.RPCSecretEnv, "")
	t.Setenv(common.RestartCountEnv, "")
	orig := appFs
	appFs = afero.NewOsFs()
	t.Cleanup(func() { appFs = orig })
	if body != "" {
		if err := os.WriteFile(filepath.Join(dir, common.ConfigFileName), []byte(body), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	return dir
}
