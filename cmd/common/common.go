// Package common provides helpers shared by the autoattend commands: usage
// error handling, help and version output, column padding and the sleep
// countdown bar.
package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli"
)

// VersionCmdStr is printed by the version command. Execute fills it in from
// the build arguments.
var VersionCmdStr string

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	showAppHelpAndExit = cli.ShowAppHelpAndExit
	showCommandHelp    = cli.ShowCommandHelp
)

// Help prints the application help and exits when called without an argument
// (or with "help"); otherwise it prints the help of the named command.
func Help(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" || arg == "help" {
		fmt.Fprintf(stdout, "%s %s\n", ctx.App.Name, ctx.App.Version)
		showAppHelpAndExit(ctx, 0)
		return nil
	}
	return showCommandHelp(ctx, arg)
}

func GetVersion(*cli.Context) error {
	fmt.Fprintln(stdout, VersionCmdStr)
	return nil
}

// PrintRuntimeErr reports a failure of a command step that does not warrant
// a non-zero exit, as "autoattend: stop[config_dir]: <err>".
func PrintRuntimeErr(ctx *cli.Context, cmd, step string, err error) {
	if err == nil {
		return
	}
	name := "autoattend"
	if ctx != nil && ctx.App != nil && ctx.App.HelpName != "" {
		name = ctx.App.HelpName
	}
	fmt.Fprintf(stderr, "%s: %s[%s]: %v\n", name, cmd, step, err)
}

// PrintErrWithCmdHelp prints err followed by the help of the running command.
func PrintErrWithCmdHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(ctx, err, func() {
		if err := showCommandHelp(ctx, ctx.Command.Name); err != nil {
			fmt.Fprintln(stdout, err.Error())
		}
	})
}

// PrintErrWithHelp prints err followed by the application help and exits 1.
func PrintErrWithHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(ctx, err, func() {
		showAppHelpAndExit(ctx, 1)
	})
}

func printErrWithCallback(ctx *cli.Context, err error, callback func()) error {
	if err == nil {
		return nil
	}
	if strings.EqualFold(err.Error(), "flag: help requested") {
		return Help(ctx)
	}
	fmt.Fprintf(stdout, "%s: %s\n\n", ctx.App.HelpName, err.Error())
	callback()
	return nil
}

// UsageErrorCallback is the OnUsageError hook for the app and its commands.
func UsageErrorCallback(ctx *cli.Context, err error, _ bool) error {
	if ctx.Command.Name != "" {
		return PrintErrWithCmdHelp(ctx, err)
	}
	return PrintErrWithHelp(ctx, err)
}

// Center pads s with spaces to width, putting the odd space on the right.
// Strings at least width long are returned unchanged.
func Center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
