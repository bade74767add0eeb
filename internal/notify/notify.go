// Package notify delivers user-visible notices. Every notice is logged locally
// and then handed to each configured Sink on a best-effort basis: delivery
// failures are logged and swallowed, never retried and never returned.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/warpdl/autoattend/pkg/logger"
)

// DefaultSendTimeout bounds a single sink delivery.
const DefaultSendTimeout = 10 * time.Second

// Level is the severity of a notice.
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelError    Level = "error"
	LevelCritical Level = "critical"
)

// Sink is an outbound notification channel.
type Sink interface {
	Send(ctx context.Context, level Level, text string) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, level Level, text string) error

// Send calls f.
func (f SinkFunc) Send(ctx context.Context, level Level, text string) error {
	return f(ctx, level, text)
}

// Notifier fans a notice out to the local log and every sink.
type Notifier struct {
	log     logger.Logger
	sinks   []Sink
	timeout time.Duration
}

// New creates a Notifier that logs through l and delivers to sinks.
func New(l logger.Logger, sinks ...Sink) *Notifier {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Notifier{log: l, sinks: sinks, timeout: DefaultSendTimeout}
}

// AddSink registers another delivery channel.
func (n *Notifier) AddSink(s Sink) {
	n.sinks = append(n.sinks, s)
}

// Info emits an informational notice.
func (n *Notifier) Info(format string, args ...interface{}) {
	n.notify(LevelInfo, fmt.Sprintf(format, args...))
}

// Warning emits a warning notice.
func (n *Notifier) Warning(format string, args ...interface{}) {
	n.notify(LevelWarning, fmt.Sprintf(format, args...))
}

// Error emits an error notice.
func (n *Notifier) Error(format string, args ...interface{}) {
	n.notify(LevelError, fmt.Sprintf(format, args...))
}

// Critical emits a notice that requires manual intervention.
func (n *Notifier) Critical(format string, args ...interface{}) {
	n.notify(LevelCritical, fmt.Sprintf(format, args...))
}

func (n *Notifier) notify(level Level, msg string) {
	text := Decorate(msg)
	switch level {
	case LevelWarning:
		n.log.Warning("%s", text)
	case LevelError:
		n.log.Error("%s", text)
	case LevelCritical:
		n.log.Critical("%s", text)
	default:
		n.log.Info("%s", text)
	}
	for _, s := range n.sinks {
		n.deliver(s, level, text)
	}
}

func (n *Notifier) deliver(s Sink, level Level, text string) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Error("Failed to send notification: panic: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()
	if err := s.Send(ctx, level, text); err != nil {
		n.log.Error("Failed to send notification: %v", err)
	}
}
