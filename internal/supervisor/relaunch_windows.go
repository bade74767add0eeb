//go:build windows

package supervisor

import (
	"os"
	"os/exec"
)

// relaunch spawns a detached copy of the process; the caller exits afterwards.
var relaunch = func(exe string, args, env []string) error {
	cmd := exec.Command(exe, args[1:]...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
