package progress

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// spinnerInterval is the frame delay for the step spinner.
const spinnerInterval = 100 * time.Millisecond

// StepSpinner shows an animated indicator while a long release step (a push,
// typically) is waiting on the network. It is a no-op when the terminal
// cannot display it, so callers never need to branch.
type StepSpinner struct {
	s       *spinner.Spinner
	enabled bool
}

// NewStepSpinner creates a spinner matched to the terminal capabilities.
// The spinner is disabled off-TTY and when colors are suppressed (NO_COLOR);
// disabled spinners accept Start/Stop calls and do nothing.
func NewStepSpinner(caps TerminalCapabilities) *StepSpinner {
	if !caps.IsTTY || !caps.SupportsColor {
		return &StepSpinner{}
	}

	symbols := SelectSymbols(caps)
	s := spinner.New(
		spinner.CharSets[symbols.SpinnerSet],
		spinnerInterval,
		// Stderr keeps the animation out of redirected stdout.
		spinner.WithWriter(os.Stderr),
	)

	return &StepSpinner{s: s, enabled: true}
}

// Start begins the animation with the given message after the frames.
// Starting an already-running spinner just updates the message.
func (sp *StepSpinner) Start(message string) {
	if !sp.enabled {
		return
	}
	sp.s.Suffix = " " + message
	if !sp.s.Active() {
		sp.s.Start()
	}
}

// Stop halts the animation and clears the spinner line.
func (sp *StepSpinner) Stop() {
	if !sp.enabled || !sp.s.Active() {
		return
	}
	sp.s.Stop()
}

// Enabled reports whether the spinner will actually render.
func (sp *StepSpinner) Enabled() bool {
	return sp.enabled
}
