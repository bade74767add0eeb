package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/warpdl/autoattend/common"
)

var errAlreadyRunning = errors.New("daemon is already running")

func pidFilePath(dir string) string {
	return filepath.Join(dir, common.PidFileName)
}

func writePidFile(dir string) error {
	pid := os.Getpid()
	return os.WriteFile(pidFilePath(dir), []byte(strconv.Itoa(pid)), 0644)
}

func readPidFile(dir string) (int, error) {
	data, err := os.ReadFile(pidFilePath(dir))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID: %d", pid)
	}
	return pid, nil
}

// removePidFile removes the PID file if it still names this process.
func removePidFile(dir string) error {
	pid, err := readPidFile(dir)
	if err != nil || pid != os.Getpid() {
		return nil
	}
	err = os.Remove(pidFilePath(dir))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// acquirePidFile records this process as the running daemon. A live PID
// other than our own is refused, except in a process relaunched after a
// crash whose predecessor may still be exiting.
func acquirePidFile(dir string) error {
	pid, err := readPidFile(dir)
	if err == nil && pid != os.Getpid() && os.Getenv(common.RestartCountEnv) == "" && isProcessRunning(pid) {
		return fmt.Errorf("%w (PID %d)", errAlreadyRunning, pid)
	}
	return writePidFile(dir)
}
