package cli

import (
	"fmt"
	"io"

	"github.com/cameron-jack/ngsg-release/internal/output"
	"github.com/cameron-jack/ngsg-release/internal/progress"
	"github.com/cameron-jack/ngsg-release/internal/publish"
)

// stepNames maps release steps to display names for step headers.
var stepNames = map[publish.Step]string{
	publish.StepStage:      "Stage changes",
	publish.StepCommit:     "Commit",
	publish.StepTag:        "Tag",
	publish.StepPushBranch: "Push branch",
	publish.StepPushTag:    "Push tag",
}

// stepReporter renders the release sequence as it runs: a header and
// command echo per step, a spinner while pushes wait on the network, and
// a running record of completed steps for the history file.
type stepReporter struct {
	out     io.Writer
	quiet   bool
	spinner *progress.StepSpinner
	// completed collects the names of steps that finished, in order.
	completed []string
}

// newStepReporter builds a reporter writing to out. The spinner is
// enabled only on capable terminals and never in quiet mode.
func newStepReporter(out io.Writer, quiet bool) *stepReporter {
	caps := progress.DetectTerminalCapabilities()
	if quiet {
		caps.IsTTY = false
	}
	return &stepReporter{
		out:     out,
		quiet:   quiet,
		spinner: progress.NewStepSpinner(caps),
	}
}

// StepStart prints the step header and starts the spinner on push steps,
// the only steps that can sit waiting on a remote.
func (r *stepReporter) StepStart(index, total int, cmd publish.Command) {
	if !r.quiet {
		output.PrintStepHeader(r.out, index, total, stepNames[cmd.Step])
		output.PrintExecutingCommand(r.out, cmd.String())
	}
	if cmd.Step == publish.StepPushBranch || cmd.Step == publish.StepPushTag {
		r.spinner.Start(fmt.Sprintf("%s...", stepNames[cmd.Step]))
	}
}

// StepSuccess stops the spinner and records the completed step.
func (r *stepReporter) StepSuccess(index, total int, cmd publish.Command) {
	r.spinner.Stop()
	r.completed = append(r.completed, string(cmd.Step))
	if !r.quiet {
		output.PrintStepSuccess(r.out, fmt.Sprintf("%s done", stepNames[cmd.Step]))
	}
}

// StepFailure stops the spinner and marks where the sequence stopped.
// The structured error printed afterwards carries the detail.
func (r *stepReporter) StepFailure(index, total int, cmd publish.Command, err error) {
	r.spinner.Stop()
	if !r.quiet {
		output.PrintStepFailure(r.out, fmt.Sprintf("%s failed", stepNames[cmd.Step]))
	}
}

// Completed returns the names of the steps that succeeded, in order.
func (r *stepReporter) Completed() []string {
	return r.completed
}
