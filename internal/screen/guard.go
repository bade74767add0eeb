package screen

import (
	"fmt"
	"runtime/debug"
)

// guard runs a capability call and converts a panic into an error. No raw
// failure from a driver escapes the executor.
func (e *Executor) guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", op, r)
			e.log.Error("PANIC [%s]: %v\n%s", op, r, debug.Stack())
		}
	}()
	return fn()
}

// guardLocate is guard for Locate. Driver errors count as a miss.
func (e *Executor) guardLocate(op string, fn func() (Region, bool, error)) (Region, bool) {
	var (
		r  Region
		ok bool
	)
	err := e.guard(op, func() error {
		var err error
		r, ok, err = fn()
		return err
	})
	if err != nil {
		e.report.Warning("%s failed: %v", op, err)
		return Region{}, false
	}
	return r, ok
}
