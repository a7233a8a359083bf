// Package broker mediates "run this code" requests against the sandbox
// runner. Every call produces exactly one Result; no failure mode escapes as
// an error or a panic past Execute.
package broker

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/avdeev/codepair-server/internal/sandbox"
	"github.com/avdeev/codepair-server/internal/utils"
)

// Outcome classifies what happened to an execution request.
type Outcome string

const (
	// OutcomeCompleted means the program exited zero within the deadline.
	OutcomeCompleted Outcome = "completed"
	// OutcomeTimedOut means the deadline elapsed and the sandbox was killed.
	OutcomeTimedOut Outcome = "timed-out"
	// OutcomeCrashed means the program exited non-zero or the sandbox itself
	// failed to come up.
	OutcomeCrashed Outcome = "crashed"
	// OutcomeRejected means validation failed and no sandbox was spawned.
	OutcomeRejected Outcome = "rejected"
)

// Request is one code execution submission.
type Request struct {
	Code     string
	Language string
}

// Result is what the caller gets back. Output is always printable text: the
// program's stdout, its stderr on a crash, or a diagnostic line.
type Result struct {
	Output  string
	Outcome Outcome
}

// Broker validates requests, bounds sandbox concurrency across all rooms,
// and maps runner outcomes to user-facing results.
type Broker struct {
	runner   sandbox.Runner
	language string
	timeout  time.Duration
	slots    chan struct{}
	log      *zerolog.Logger
}

// New builds a broker for a single supported language. maxConcurrent bounds
// sandboxes in flight process-wide.
func New(runner sandbox.Runner, language string, timeout time.Duration, maxConcurrent int, logger *zerolog.Logger) *Broker {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Broker{
		runner:   runner,
		language: language,
		timeout:  timeout,
		slots:    make(chan struct{}, maxConcurrent),
		log:      logger,
	}
}

// Execute runs the request to a terminal result. The sandbox slot taken for
// the run is released on every path before Execute returns.
func (b *Broker) Execute(ctx context.Context, req Request) Result {
	if strings.TrimSpace(req.Code) == "" {
		return Result{Outcome: OutcomeRejected, Output: "nothing to run: code is empty"}
	}
	if req.Language != b.language {
		return Result{Outcome: OutcomeRejected, Output: "unsupported language: " + req.Language}
	}

	select {
	case b.slots <- struct{}{}:
	case <-ctx.Done():
		return Result{Outcome: OutcomeRejected, Output: "canceled while waiting for a sandbox slot"}
	}
	defer func() { <-b.slots }()

	jobID := utils.NewID()
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	res, err := b.runner.Run(runCtx, req.Code)
	if err != nil {
		b.log.Error().Err(err).Str("job_id", jobID).Msg("sandbox provision failed")
		return Result{Outcome: OutcomeCrashed, Output: "sandbox failed to start"}
	}

	b.log.Info().
		Str("job_id", jobID).
		Str("state", res.State.String()).
		Int("exit_code", res.ExitCode).
		Dur("elapsed", time.Since(start)).
		Msg("execution finished")

	switch res.State {
	case sandbox.StateTimedOut:
		output := res.Stdout
		if res.Stderr != "" {
			output += res.Stderr
		}
		if output != "" && !strings.HasSuffix(output, "\n") {
			output += "\n"
		}
		return Result{Outcome: OutcomeTimedOut, Output: output + "execution timed out after " + b.timeout.String()}
	case sandbox.StateCrashed:
		// Surface the interpreter's diagnostic, not an opaque failure.
		output := res.Stderr
		if output == "" {
			output = res.Stdout
		}
		return Result{Outcome: OutcomeCrashed, Output: output}
	default:
		output := res.Stdout
		if output == "" {
			output = res.Stderr
		}
		return Result{Outcome: OutcomeCompleted, Output: output}
	}
}
