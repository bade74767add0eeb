//go:build !windows

package supervisor

import "golang.org/x/sys/unix"

// relaunch replaces the current process image. It only returns on failure.
var relaunch = func(exe string, args, env []string) error {
	return unix.Exec(exe, args, env)
}
