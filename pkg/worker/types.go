package worker

import (
	"context"
	"time"
)

// Task is a unit of work. Tasks may Submit further tasks to the pool that runs
// them; the pool finishes only when no task is queued or running.
type Task struct {
	// ID identifies the task in logs and errors
	ID int

	// Execute performs the work
	Execute func(context.Context) error
}

// Config holds the configuration for the worker pool
type Config struct {
	// Workers is the number of concurrent workers
	Workers int

	// RateLimit is the maximum number of tasks started per second (0 for unlimited)
	RateLimit int
}

// Status represents the current state of the worker pool
type Status string

const (
	// StatusIdle indicates the pool is started and waiting for work
	StatusIdle Status = "idle"

	// StatusProcessing indicates at least one task is queued or running
	StatusProcessing Status = "processing"

	// StatusDone indicates the queue drained and the pool will not run more tasks
	StatusDone Status = "done"

	// StatusStopped indicates the pool has not been started or was stopped
	StatusStopped Status = "stopped"
)

// Stats provides runtime statistics about the worker pool
type Stats struct {
	// ActiveWorkers is the number of workers currently running a task
	ActiveWorkers int

	// QueuedTasks is the number of tasks waiting to be picked up
	QueuedTasks int

	// CompletedTasks is the number of tasks that returned without error
	CompletedTasks int

	// FailedTasks is the number of tasks that returned an error
	FailedTasks int

	// Status is the current state of the pool
	Status Status

	// Uptime is how long the pool has been running
	Uptime time.Duration
}
