package common

import (
	"bytes"
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/urfave/cli"
)

func newTestContext(command string, args ...string) *cli.Context {
	app := cli.NewApp()
	app.Name = "autoattend"
	app.HelpName = "autoattend"
	app.Version = "test"
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = set.Parse(args)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: command}
	return ctx
}

// captureOutput redirects the package writers for the duration of a test.
func captureOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	oldOut, oldErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return out, errOut
}

func stubHelp(t *testing.T) (appExits *[]int, cmdHelp *[]string) {
	t.Helper()
	appExits, cmdHelp = &[]int{}, &[]string{}
	oldApp, oldCmd := showAppHelpAndExit, showCommandHelp
	showAppHelpAndExit = func(_ *cli.Context, code int) { *appExits = append(*appExits, code) }
	showCommandHelp = func(_ *cli.Context, name string) error {
		*cmdHelp = append(*cmdHelp, name)
		return nil
	}
	t.Cleanup(func() { showAppHelpAndExit, showCommandHelp = oldApp, oldCmd })
	return appExits, cmdHelp
}

func TestCenter(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"once", 7, " once  "},
		{"daily", 7, " daily "},
		{"weekly", 4, "weekly"},
		{"", 2, "  "},
	}
	for _, tt := range tests {
		if got := Center(tt.in, tt.width); got != tt.want {
			t.Errorf("Center(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestPrintRuntimeErr(t *testing.T) {
	out, errOut := captureOutput(t)
	PrintRuntimeErr(newTestContext("stop"), "stop", "config_dir", nil)
	if errOut.Len() != 0 {
		t.Fatalf("nil error must print nothing, got %q", errOut.String())
	}
	PrintRuntimeErr(nil, "stop", "config_dir", errors.New("no home directory"))
	if got := errOut.String(); got != "autoattend: stop[config_dir]: no home directory\n" {
		t.Fatalf("unexpected runtime error line %q", got)
	}
	if out.Len() != 0 {
		t.Fatalf("runtime errors go to stderr, stdout got %q", out.String())
	}
}

func TestPrintErrWithCmdHelp(t *testing.T) {
	out, _ := captureOutput(t)
	_, cmdHelp := stubHelp(t)

	if err := PrintErrWithCmdHelp(newTestContext("creds"), errors.New("missing bot token")); err != nil {
		t.Fatalf("PrintErrWithCmdHelp: %v", err)
	}
	if !strings.HasPrefix(out.String(), "autoattend: missing bot token\n") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if len(*cmdHelp) != 1 || (*cmdHelp)[0] != "creds" {
		t.Fatalf("expected creds help, got %v", *cmdHelp)
	}
}

func TestPrintErrWithCmdHelp_HelpFailure(t *testing.T) {
	out, _ := captureOutput(t)
	old := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error { return errors.New("no such command") }
	defer func() { showCommandHelp = old }()

	if err := PrintErrWithCmdHelp(newTestContext("creds"), errors.New("missing bot token")); err != nil {
		t.Fatalf("PrintErrWithCmdHelp: %v", err)
	}
	if !strings.Contains(out.String(), "no such command") {
		t.Fatalf("expected help failure printed, got %q", out.String())
	}
}

func TestPrintErrWithHelp(t *testing.T) {
	out, _ := captureOutput(t)
	appExits, _ := stubHelp(t)

	if err := PrintErrWithHelp(newTestContext(""), errors.New("flag provided but not defined: -x")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if len(*appExits) != 1 || (*appExits)[0] != 1 {
		t.Fatalf("expected app help with exit 1, got %v", *appExits)
	}
	if !strings.Contains(out.String(), "flag provided but not defined: -x") {
		t.Fatalf("expected the error printed, got %q", out.String())
	}
}

func TestPrintErrWithHelp_HelpRequested(t *testing.T) {
	out, _ := captureOutput(t)
	appExits, _ := stubHelp(t)

	if err := PrintErrWithHelp(newTestContext(""), errors.New("flag: help requested")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if len(*appExits) != 1 || (*appExits)[0] != 0 {
		t.Fatalf("expected plain help with exit 0, got %v", *appExits)
	}
	if out.String() != "autoattend test\n" {
		t.Fatalf("expected only the version banner, got %q", out.String())
	}
}

func TestPrintErrWithHelp_Nil(t *testing.T) {
	out, _ := captureOutput(t)
	appExits, _ := stubHelp(t)
	if err := PrintErrWithHelp(newTestContext(""), nil); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if out.Len() != 0 || len(*appExits) != 0 {
		t.Fatal("nil error must be a no-op")
	}
}

func TestUsageErrorCallback(t *testing.T) {
	captureOutput(t)
	appExits, cmdHelp := stubHelp(t)

	if err := UsageErrorCallback(newTestContext("history"), errors.New("bad limit"), false); err != nil {
		t.Fatalf("UsageErrorCallback: %v", err)
	}
	if len(*cmdHelp) != 1 || (*cmdHelp)[0] != "history" || len(*appExits) != 0 {
		t.Fatalf("command usage error should show command help, got cmd=%v app=%v", *cmdHelp, *appExits)
	}

	if err := UsageErrorCallback(newTestContext(""), errors.New("bad flag"), false); err != nil {
		t.Fatalf("UsageErrorCallback: %v", err)
	}
	if len(*appExits) != 1 {
		t.Fatalf("app usage error should show app help, got %v", *appExits)
	}
}

func TestHelp(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantApp  int
		wantCmds []string
	}{
		{"no argument", nil, 1, nil},
		{"help argument", []string{"help"}, 1, nil},
		{"command argument", []string{"history"}, 0, []string{"history"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureOutput(t)
			appExits, cmdHelp := stubHelp(t)
			if err := Help(newTestContext("help", tt.args...)); err != nil {
				t.Fatalf("Help: %v", err)
			}
			if len(*appExits) != tt.wantApp {
				t.Fatalf("app help calls = %v, want %d", *appExits, tt.wantApp)
			}
			if strings.Join(*cmdHelp, ",") != strings.Join(tt.wantCmds, ",") {
				t.Fatalf("command help calls = %v, want %v", *cmdHelp, tt.wantCmds)
			}
		})
	}
}

func TestHelp_UnknownCommand(t *testing.T) {
	captureOutput(t)
	old := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error { return errors.New("no help topic for 'nope'") }
	defer func() { showCommandHelp = old }()

	if err := Help(newTestContext("help", "nope")); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestGetVersion(t *testing.T) {
	out, _ := captureOutput(t)
	old := VersionCmdStr
	VersionCmdStr = "autoattend 1.0.0 (linux_amd64)"
	defer func() { VersionCmdStr = old }()

	if err := GetVersion(newTestContext("version")); err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
	if out.String() != "autoattend 1.0.0 (linux_amd64)\n" {
		t.Fatalf("unexpected version output %q", out.String())
	}
}
