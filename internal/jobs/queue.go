package jobs

// TaskQueue accepts fire-and-forget background work. Enqueue never waits for
// the job to run; the returned error only reports whether it was accepted.
type TaskQueue interface {
	EnqueueGeneration(numLevels int, reason string) error
	EnqueueSessionPurge() error
}
