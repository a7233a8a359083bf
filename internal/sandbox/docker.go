package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/avdeev/codepair-server/internal/utils"
)

// DockerRunner runs source in a one-shot docker container. Source is piped
// on stdin, never mounted, so no host filesystem path reaches the container.
type DockerRunner struct {
	policy Policy
	log    *zerolog.Logger
}

// NewDockerRunner creates a runner with the given policy.
func NewDockerRunner(policy Policy, logger *zerolog.Logger) *DockerRunner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &DockerRunner{policy: policy, log: logger}
}

func (d *DockerRunner) Run(ctx context.Context, source string) (*Result, error) {
	// The policy timeout is a ceiling; a shorter caller deadline wins.
	runCtx, cancel := context.WithTimeout(ctx, d.policy.Timeout)
	defer cancel()

	name := "codepair-" + utils.NewID()
	cmd := exec.CommandContext(runCtx, "docker", d.args(name)...)
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Wait must return shortly after the kill even if the container inherited
	// our pipes, otherwise a timed-out run would hold the caller hostage.
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	err := cmd.Run()
	result := &Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if runCtx.Err() != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		// Killing the docker client does not reliably stop the container, so
		// remove it by name to guarantee teardown.
		d.removeContainer(name)
		result.State = StateTimedOut
		result.ExitCode = -1
		d.log.Info().Str("container", name).Dur("elapsed", time.Since(start)).Msg("sandbox timed out")
		return result, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.State = StateCrashed
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		// docker binary missing, daemon down, etc.
		return nil, fmt.Errorf("provision sandbox: %w", err)
	}

	result.State = StateCompleted
	d.log.Debug().Str("container", name).Dur("elapsed", time.Since(start)).Msg("sandbox completed")
	return result, nil
}

// args builds the docker invocation. The container is named so it can be
// force-removed on timeout; --rm covers every other exit path.
func (d *DockerRunner) args(name string) []string {
	args := []string{
		"run", "--rm", "-i",
		"--name", name,
		"--memory", d.policy.Memory,
	}
	if !d.policy.Network {
		args = append(args, "--network=none")
	}
	args = append(args, d.policy.Image)
	args = append(args, d.policy.Command...)
	return args
}

func (d *DockerRunner) removeContainer(name string) {
	rmCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := exec.CommandContext(rmCtx, "docker", "rm", "-f", name).Run(); err != nil {
		d.log.Warn().Err(err).Str("container", name).Msg("force-remove sandbox container")
	}
}
