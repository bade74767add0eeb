package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli"
	"github.com/warpdl/autoattend/cmd/common"
	"github.com/warpdl/autoattend/internal/config"
	"github.com/warpdl/autoattend/internal/scheduler"
	"github.com/warpdl/autoattend/internal/timetable"
)

var checkFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "date, d",
		Usage: "day to plan as YYYY-MM-DD (default: today from now on)",
	},
}

// planOnly registers tasks whose actions never run.
type planOnly struct{}

func (planOnly) JoinAction(config.Slot) scheduler.Action { return nil }
func (planOnly) LeaveAction(string) scheduler.Action { return nil }

type noticeList []string

func (n *noticeList) Info(format string, args ...interface{}) {
	*n = append(*n, fmt.Sprintf(format, args...))
}

func check(ctx *cli.Context) error {
	cfg, _, err := loadConfig(ctx)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	at := time.Now()
	if s := ctx.String("date"); s != "" {
		at, err = time.ParseInLocation(config.DateLayout, s, time.Local)
		if err != nil {
			return fmt.Errorf("check: invalid date %q, expected YYYY-MM-DD", s)
		}
	}
	printPlan(os.Stdout, cfg, at)
	return nil
}

// printPlan builds the day containing at against a throwaway scheduler and
// prints the notices and the tasks in firing order.
func printPlan(w io.Writer, cfg *config.Config, at time.Time) {
	sched := scheduler.New(func() time.Time { return at })
	var notices noticeList
	ds := timetable.NewBuilder(cfg, sched, planOnly{}, &notices).Build(at)

	fmt.Fprintf(w, "%s %s: %s\n", ds.Date.Weekday(), ds.Date.Format(config.DateLayout), ds.Reason)
	for _, n := range notices {
		fmt.Fprintf(w, "\n%s\n", n)
	}
	tasks := sched.Pending()
	if len(tasks) == 0 {
		return
	}
	fmt.Fprintln(w, "\nTasks:")
	for _, t := range tasks {
		fmt.Fprintf(w, "  %s |%s| %s\n", t.At.Format("15:04"), common.Center(t.Recurrence, 7), t.Name)
	}
	fmt.Fprintln(w, strings.Repeat("-", 40))
}
