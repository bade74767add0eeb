package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
	"github.com/warpdl/autoattend/internal/journal"
)

var historyFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "limit, n",
		Usage: "number of entries to show",
		Value: 20,
	},
}

func history(ctx *cli.Context) error {
	cfg, _, err := loadConfig(ctx)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if _, err := os.Stat(cfg.JournalPath); os.IsNotExist(err) {
		fmt.Println("No attendance recorded yet")
		return nil
	}
	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	defer j.Close()
	entries, err := j.Recent(context.Background(), ctx.Int("limit"))
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	printHistory(os.Stdout, entries)
	return nil
}

func printHistory(w io.Writer, entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No attendance recorded yet")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-18s %s", e.At.Local().Format("2006-01-02 15:04"), e.Status, e.Link)
		if e.Note != "" {
			line += " (" + e.Note + ")"
		}
		fmt.Fprintln(w, line)
	}
}
