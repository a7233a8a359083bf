package sandbox

import "time"

// Policy defines the isolation and resource limits for sandbox execution.
type Policy struct {
	Image   string        // pinned execution image
	Command []string      // interpreter invocation; reads the program from stdin
	Memory  string        // container memory limit (e.g. "128m")
	Timeout time.Duration // wall-clock ceiling for one run
	Network bool          // whether network access is allowed
}

// DefaultPolicy returns safe defaults for the javascript runtime: node reads
// a piped program from stdin, no network, modest memory.
func DefaultPolicy() Policy {
	return Policy{
		Image:   "node:18-alpine",
		Command: []string{"node"},
		Memory:  "128m",
		Timeout: 5 * time.Second,
		Network: false,
	}
}
