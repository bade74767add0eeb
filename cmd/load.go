package cmd

import (
	"log"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/warpdl/autoattend/internal/config"
	"github.com/warpdl/autoattend/pkg/logger"
)

var appFs = afero.NewOsFs()

func configFlag(ctx *cli.Context) string {
	if p := ctx.GlobalString("config"); p != "" {
		return p
	}
	return ctx.String("config")
}

// loadConfig returns the validated configuration and the configuration
// directory holding the PID file and the token fallback file.
func loadConfig(ctx *cli.Context) (*config.Config, string, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(appFs, config.ResolvePath(configFlag(ctx), dir))
	if err != nil {
		return nil, dir, err
	}
	return cfg, dir, nil
}

// newDaemonLogger logs to stderr and, when possible, to the configured log file.
func newDaemonLogger(cfg *config.Config) logger.Logger {
	flags := log.LstdFlags
	if cfg.Debug {
		flags |= log.Lmicroseconds | log.Lshortfile
	}
	console := logger.NewStandardLogger(log.New(os.Stderr, "", flags))
	if cfg.LogFile == "" {
		return console
	}
	fl, err := logger.NewFileLogger(cfg.LogFile)
	if err != nil {
		console.Warning("log file disabled: %v", err)
		return console
	}
	return logger.NewMultiLogger(console, fl)
}
