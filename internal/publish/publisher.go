package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Step identifies one operation in the release sequence.
type Step string

const (
	// StepStage stages all modified tracked files.
	StepStage Step = "stage"
	// StepCommit records the release commit.
	StepCommit Step = "commit"
	// StepTag creates the annotated release tag.
	StepTag Step = "tag"
	// StepPushBranch pushes the release branch to the remote.
	StepPushBranch Step = "push branch"
	// StepPushTag pushes the release tag to the remote.
	StepPushTag Step = "push tag"
)

// Command is a single planned invocation in the release sequence.
type Command struct {
	// Step identifies which release operation this command performs.
	Step Step
	// Name is the program to invoke.
	Name string
	// Args are the program arguments.
	Args []string
}

// String renders the command roughly as a user would type it. Arguments
// containing whitespace or quotes are quoted so multi-line release notes
// stay on one display line.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, arg := range c.Args {
		if strings.ContainsAny(arg, " \t\n\"") || arg == "" {
			arg = strconv.Quote(arg)
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// StepError reports which release step failed and how. Steps after the
// failing one are never attempted, so a StepError also tells the caller
// where the release stopped.
type StepError struct {
	// Step is the release step that failed.
	Step Step
	// ExitCode is the exit status of the failing command, or -1 if the
	// command could not be run at all.
	ExitCode int
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Reporter receives step lifecycle events during a publish run.
// Implementations render progress displays; all methods are called
// sequentially from Publish.
type Reporter interface {
	// StepStart is called before a step's command runs.
	StepStart(index, total int, cmd Command)
	// StepSuccess is called after a step's command exits zero.
	StepSuccess(index, total int, cmd Command)
	// StepFailure is called when a step's command fails. No further
	// steps run after it.
	StepFailure(index, total int, cmd Command, err error)
}

// Publisher runs the version-control steps of a release in a fixed order.
// Its inputs are explicit: the repository path, remote and branch are
// supplied up front rather than discovered at run time.
type Publisher struct {
	// repoPath is the working directory for every command.
	repoPath string
	// remote is the push destination name.
	remote string
	// branch is the branch pushed in the push-branch step.
	branch string
	// runner executes the commands.
	runner Runner
	// stdout receives command output and dry-run previews.
	stdout io.Writer
	// stderr receives command error output.
	stderr io.Writer
	// reporter receives step lifecycle events (optional).
	reporter Reporter
	// dryRun prints the planned commands instead of running them.
	dryRun bool
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithRunner sets a custom command runner (for testing).
func WithRunner(r Runner) PublisherOption {
	return func(p *Publisher) {
		p.runner = r
	}
}

// WithStdout sets the writer for command output and dry-run previews.
func WithStdout(w io.Writer) PublisherOption {
	return func(p *Publisher) {
		p.stdout = w
	}
}

// WithStderr sets the writer for command error output.
func WithStderr(w io.Writer) PublisherOption {
	return func(p *Publisher) {
		p.stderr = w
	}
}

// WithReporter sets a reporter for step lifecycle events.
func WithReporter(r Reporter) PublisherOption {
	return func(p *Publisher) {
		p.reporter = r
	}
}

// WithDryRun enables dry-run mode: the planned commands are printed and
// nothing is executed.
func WithDryRun(dryRun bool) PublisherOption {
	return func(p *Publisher) {
		p.dryRun = dryRun
	}
}

// NewPublisher creates a Publisher that releases from the repository at
// repoPath, pushing branch to remote.
func NewPublisher(repoPath, remote, branch string, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		repoPath: repoPath,
		remote:   remote,
		branch:   branch,
		runner:   &ExecRunner{},
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Steps returns the planned command sequence for releasing version with
// notes as the commit and tag message. The sequence is fixed: stage,
// commit, tag, push the branch, push the tag.
func (p *Publisher) Steps(version, notes string) []Command {
	return []Command{
		{Step: StepStage, Name: "git", Args: []string{"add", "-u"}},
		{Step: StepCommit, Name: "git", Args: []string{"commit", "-m", notes}},
		{Step: StepTag, Name: "git", Args: []string{"tag", "-a", version, "-m", notes}},
		{Step: StepPushBranch, Name: "git", Args: []string{"push", p.remote, p.branch}},
		{Step: StepPushTag, Name: "git", Args: []string{"push", p.remote, version}},
	}
}

// Publish runs the release sequence for version. Steps run strictly in
// order and each is gated on the previous one succeeding: on failure the
// remaining steps are not attempted and the returned *StepError identifies
// the failing step. A failure mid-sequence can leave the commit or tag
// created locally but unpushed; that state is reported, not rolled back.
//
// No deadline is imposed. A command that blocks (a push waiting on
// credentials, say) blocks the run until ctx is cancelled.
func (p *Publisher) Publish(ctx context.Context, version, notes string) error {
	if version == "" {
		return fmt.Errorf("version is required")
	}
	if notes == "" {
		return fmt.Errorf("release notes are required")
	}

	steps := p.Steps(version, notes)

	if p.dryRun {
		for _, cmd := range steps {
			fmt.Fprintf(p.stdout, "Would run: %s\n", cmd)
		}
		return nil
	}

	total := len(steps)
	for i, cmd := range steps {
		p.reportStart(i+1, total, cmd)
		logDebug("[publish] step %d/%d (%s): %s", i+1, total, cmd.Step, cmd)

		exitCode, err := p.runner.Run(ctx, p.repoPath, p.stdout, p.stderr, cmd.Name, cmd.Args...)
		if err != nil {
			stepErr := &StepError{Step: cmd.Step, ExitCode: exitCode, Err: fmt.Errorf("running %s: %w", cmd.Name, err)}
			p.reportFailure(i+1, total, cmd, stepErr)
			return stepErr
		}
		if exitCode != 0 {
			stepErr := &StepError{Step: cmd.Step, ExitCode: exitCode, Err: fmt.Errorf("%s exited with code %d", cmd, exitCode)}
			p.reportFailure(i+1, total, cmd, stepErr)
			return stepErr
		}

		p.reportSuccess(i+1, total, cmd)
	}

	return nil
}

// reportStart notifies the reporter that a step is starting.
// No-op if no reporter is configured.
func (p *Publisher) reportStart(index, total int, cmd Command) {
	if p.reporter == nil {
		return
	}
	p.reporter.StepStart(index, total, cmd)
}

// reportSuccess notifies the reporter that a step succeeded.
// No-op if no reporter is configured.
func (p *Publisher) reportSuccess(index, total int, cmd Command) {
	if p.reporter == nil {
		return
	}
	p.reporter.StepSuccess(index, total, cmd)
}

// reportFailure notifies the reporter that a step failed.
// No-op if no reporter is configured.
func (p *Publisher) reportFailure(index, total int, cmd Command, err error) {
	if p.reporter == nil {
		return
	}
	p.reporter.StepFailure(index, total, cmd, err)
}
