package scheduler

import "time"

// Task is a pending call that may still be cancelled.
type Task interface {
	// Stop prevents the call from running. It returns false if the call
	// already ran or was already stopped.
	Stop() bool
}

type Scheduler interface {
	AfterFunc(delay time.Duration, fn func()) Task
}

type timerScheduler struct{}

// New returns a Scheduler backed by time.AfterFunc.
func New() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) AfterFunc(delay time.Duration, fn func()) Task {
	return time.AfterFunc(delay, fn)
}
