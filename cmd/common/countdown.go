package common

import (
	"io"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Countdown renders the sleep until the next morning as a progress bar.
// It satisfies supervisor.SleepObserver.
type Countdown struct {
	out io.Writer

	mu   sync.Mutex
	p    *mpb.Progress
	bar  *mpb.Bar
	from time.Time
}

// NewCountdown creates a Countdown drawing to out.
func NewCountdown(out io.Writer) *Countdown {
	return &Countdown{out: out}
}

// Start begins a new bar covering from..until, closing any previous one.
func (c *Countdown) Start(from, until time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finish()

	total := int64(until.Sub(from) / time.Second)
	if total <= 0 {
		return
	}
	barStyle := mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟")
	name := "Sleeping until " + until.Format("Mon 15:04")

	c.p = mpb.New(mpb.WithOutput(c.out), mpb.WithWidth(40))
	c.bar = c.p.New(total,
		barStyle,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Any(remaining), "Good morning"),
		),
	)
	c.from = from
}

// Update moves the bar to now.
func (c *Countdown) Update(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bar == nil {
		return
	}
	c.bar.SetCurrent(int64(now.Sub(c.from) / time.Second))
}

// Done completes and removes the bar.
func (c *Countdown) Done() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finish()
}

func (c *Countdown) finish() {
	if c.bar == nil {
		return
	}
	c.bar.SetTotal(-1, true)
	c.p.Wait()
	c.bar, c.p = nil, nil
}

func remaining(s decor.Statistics) string {
	left := time.Duration(s.Total-s.Current) * time.Second
	if left < 0 {
		left = 0
	}
	return left.Truncate(time.Minute).String() + " left"
}
