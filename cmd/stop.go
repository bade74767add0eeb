package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
	"github.com/warpdl/autoattend/cmd/common"
	"github.com/warpdl/autoattend/internal/config"
)

func stop(ctx *cli.Context) error {
	dir, err := config.DefaultDir()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop", "config_dir", err)
		return nil
	}
	pid, err := readPidFile(dir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Daemon is not running (PID file not found)")
			return nil
		}
		fmt.Fprintf(os.Stderr, "Error reading PID file: %v\n", err)
		return nil
	}

	fmt.Printf("Stopping daemon (PID %d)...\n", pid)
	if err := killDaemon(pid); err != nil {
		fmt.Fprintf(os.Stderr, "Error stopping daemon: %v\n", err)
		return nil
	}
	// the daemon removes its own PID file on the way out
	fmt.Println("Daemon stopped successfully")
	return nil
}
