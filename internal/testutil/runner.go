// Package testutil provides shared test fakes and fixtures for
// ngsg-release tests: a recording command runner and scratch git
// repositories built with go-git.
package testutil

import (
	"context"
	"io"
	"strings"
	"sync"
)

// RecordedCall is one command invocation captured by RunnerRecorder.
type RecordedCall struct {
	// Dir is the working directory the command was run in.
	Dir string
	// Name is the program name.
	Name string
	// Args are the program arguments.
	Args []string
}

// Key returns the full argv as one space-joined string, the form used to
// program failures into the recorder.
func (c RecordedCall) Key() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// RunnerRecorder records every command it is asked to run and returns
// programmed results. It satisfies the publisher's Runner interface
// structurally, so command-sequence tests never touch a real git binary.
//
// The zero value is not ready to use; construct with NewRunnerRecorder.
type RunnerRecorder struct {
	mu sync.Mutex
	// calls holds every invocation in order.
	calls []RecordedCall
	// exitCodes maps an argv key to a non-zero exit status.
	exitCodes map[string]int
	// errs maps an argv key to a runner-level error (command not runnable).
	errs map[string]error
	// output, when set, is written to the command's stdout writer.
	output string
}

// NewRunnerRecorder creates a recorder where every command succeeds.
func NewRunnerRecorder() *RunnerRecorder {
	return &RunnerRecorder{
		exitCodes: make(map[string]int),
		errs:      make(map[string]error),
	}
}

// FailWith makes the command with the given argv key exit with code.
func (r *RunnerRecorder) FailWith(key string, code int) *RunnerRecorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exitCodes[key] = code
	return r
}

// ErrorWith makes the command with the given argv key fail to run at all.
func (r *RunnerRecorder) ErrorWith(key string, err error) *RunnerRecorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[key] = err
	return r
}

// WithOutput makes every run write out to the command's stdout writer.
func (r *RunnerRecorder) WithOutput(out string) *RunnerRecorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.output = out
	return r
}

// Run records the invocation and returns the programmed result.
// The signature matches publish.Runner.
func (r *RunnerRecorder) Run(
	_ context.Context,
	dir string,
	stdout, _ io.Writer,
	name string,
	args ...string,
) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call := RecordedCall{Dir: dir, Name: name, Args: args}
	r.calls = append(r.calls, call)

	if r.output != "" && stdout != nil {
		io.WriteString(stdout, r.output)
	}

	if err, ok := r.errs[call.Key()]; ok {
		return -1, err
	}
	if code, ok := r.exitCodes[call.Key()]; ok {
		return code, nil
	}
	return 0, nil
}

// Calls returns a copy of all recorded invocations in order.
func (r *RunnerRecorder) Calls() []RecordedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedCall(nil), r.calls...)
}

// Keys returns the argv keys of all recorded invocations in order.
func (r *RunnerRecorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.calls))
	for _, call := range r.calls {
		keys = append(keys, call.Key())
	}
	return keys
}

// CallCount returns how many commands were run.
func (r *RunnerRecorder) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
