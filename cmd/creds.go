package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli"
	"github.com/warpdl/autoattend/cmd/common"
	"github.com/warpdl/autoattend/internal/config"
	"github.com/warpdl/autoattend/pkg/credman/keyring"
	"github.com/warpdl/autoattend/pkg/logger"
)

// newTokenStore is replaced in tests to avoid touching the real keyring.
var newTokenStore = func(dir string) keyring.Store {
	warn := logger.NewStandardLogger(log.New(os.Stderr, "", 0))
	return keyring.NewFallback(keyring.NewKeyring(), keyring.NewFileStore(dir), warn)
}

func tokenStore() (keyring.Store, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return newTokenStore(dir), nil
}

func credsSet(ctx *cli.Context) error {
	token := strings.TrimSpace(ctx.Args().First())
	if token == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("missing bot token"))
	}
	store, err := tokenStore()
	if err != nil {
		return fmt.Errorf("creds: %w", err)
	}
	if err := store.Set(token); err != nil {
		return fmt.Errorf("creds: %w", err)
	}
	fmt.Println("Bot token stored")
	return nil
}

func credsDelete(ctx *cli.Context) error {
	store, err := tokenStore()
	if err != nil {
		return fmt.Errorf("creds: %w", err)
	}
	if err := store.Delete(); err != nil {
		return fmt.Errorf("creds: %w", err)
	}
	fmt.Println("Bot token removed")
	return nil
}
