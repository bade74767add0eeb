package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli"
	"github.com/warpdl/autoattend/cmd/common"
	"github.com/warpdl/autoattend/internal/daemon"
	"github.com/warpdl/autoattend/internal/supervisor"
	"github.com/warpdl/autoattend/pkg/credman/keyring"
)

func run(ctx *cli.Context) error {
	cfg, dir, err := loadConfig(ctx)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("run: create config dir: %w", err)
	}
	if err := acquirePidFile(dir); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer removePidFile(dir)

	l := newDaemonLogger(cfg)
	defer l.Close()

	deps := &daemon.Dependencies{
		Logger:  l,
		Secrets: keyring.NewFallback(keyring.NewKeyring(), keyring.NewFileStore(dir), l),
	}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		deps.Observer = common.NewCountdown(os.Stdout)
	}
	r, err := daemon.New(&daemon.Config{
		App:       cfg,
		Args:      os.Args,
		Version:   currentBuildArgs.Version,
		Commit:    currentBuildArgs.Commit,
		BuildType: currentBuildArgs.BuildType,
	}, deps)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer r.Close()

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	l.Info("autoattend %s started (PID %d)", currentBuildArgs.Version, os.Getpid())
	err = r.Start(sigCtx)
	switch {
	case err == nil:
		l.Info("daemon stopped")
		return nil
	case errors.Is(err, supervisor.ErrTooManyRestarts):
		l.Critical("giving up after %d restarts", cfg.Recovery.MaxRestarts)
		return fmt.Errorf("run: %w", err)
	default:
		l.Critical("daemon exited: %v", err)
		return fmt.Errorf("run: %w", err)
	}
}
