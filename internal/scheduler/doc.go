// Package scheduler provides the time-triggered task registry that drives the
// meeting lifecycle. Tasks live in a min-heap sorted by fire time (ties broken
// by registration order) and are fired synchronously by RunPending, which the
// supervisor calls on every poll tick. Daily tasks re-arm to the next matching
// time of day via a cron expression; one-shot tasks and tasks whose action
// returns Cancel are dropped after they fire.
//
// The registry is not safe for concurrent use. It is owned by the control loop.
package scheduler
