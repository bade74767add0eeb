package supervisor

import (
	"context"
	"errors"

	"github.com/warpdl/autoattend/pkg/logger"
)

// Supervisor re-enters the control loop every morning and hands escaping
// failures to the crash recovery policy.
type Supervisor struct {
	loop     *Loop
	recovery *Recovery
	log      logger.Logger
}

// New creates a Supervisor.
func New(loop *Loop, recovery *Recovery, l logger.Logger) *Supervisor {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Supervisor{loop: loop, recovery: recovery, log: l}
}

// Run loops until ctx is done (returns nil) or a failure escapes the loop.
// A failure is passed to Recovery.Handle, whose result is returned: nil means
// a replacement process was started and this one should exit cleanly.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		err := s.loop.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		s.log.Error("control loop failed: %v", err)
		return s.recovery.Handle(err)
	}
}
