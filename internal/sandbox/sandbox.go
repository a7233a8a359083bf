// Package sandbox runs untrusted source in a disposable isolated process.
package sandbox

import "context"

// State is the sandbox lifecycle: Created -> Running -> terminal.
type State int

const (
	// StateCreated means the sandbox is being provisioned.
	StateCreated State = iota
	// StateRunning means the process is executing under a deadline.
	StateRunning
	// StateCompleted means the process exited zero before the deadline.
	StateCompleted
	// StateCrashed means the process exited non-zero before the deadline.
	StateCrashed
	// StateTimedOut means the deadline elapsed and the process was killed.
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCrashed:
		return "crashed"
	case StateTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Result is the terminal state of one run with whatever output was captured
// before the process ended. On timeout both streams hold partial content.
type Result struct {
	State    State
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes source text in isolation. Run returns a Result for every
// outcome the program itself can cause (exit, crash, timeout); an error is
// returned only when the sandbox could not be provisioned at all. The
// sandbox and its process are guaranteed gone by the time Run returns.
type Runner interface {
	Run(ctx context.Context, source string) (*Result, error)
}
