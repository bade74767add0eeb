package supervisor

import (
	"os"
	"strconv"
	"strings"

	"github.com/warpdl/autoattend/common"
)

// Counter tracks unhandled crashes in the current crash chain. It is owned by
// the control loop; the relaunched process receives its value through the
// environment so the ceiling bounds the whole chain.
type Counter struct {
	n   int
	max int
}

// NewCounter creates a counter starting at n with the given ceiling.
func NewCounter(n, max int) *Counter {
	if n < 0 {
		n = 0
	}
	return &Counter{n: n, max: max}
}

// CounterFromEnv reads the starting value from $AUTOATTEND_RESTART_COUNT.
// A missing or malformed value starts at zero.
func CounterFromEnv(max int) *Counter {
	n, _ := strconv.Atoi(strings.TrimSpace(os.Getenv(common.RestartCountEnv)))
	return NewCounter(n, max)
}

// Inc records a crash and returns the new value.
func (c *Counter) Inc() int {
	c.n++
	return c.n
}

// Reset clears the counter after a healthy stretch.
func (c *Counter) Reset() {
	c.n = 0
}

// Value returns the current count.
func (c *Counter) Value() int {
	return c.n
}

// Max returns the ceiling.
func (c *Counter) Max() int {
	return c.max
}

// Exceeded reports whether the count is past the ceiling.
func (c *Counter) Exceeded() bool {
	return c.n > c.max
}
