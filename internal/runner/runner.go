// Package runner supervises benchmarked subprocesses: it spawns a child with
// stdin closed and output captured, enforces a wall-clock deadline, and
// optionally samples the child's resident memory while it runs.
package runner

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/zkbench/internal/errors"
)

// DefaultPollInterval is how often a live child is checked for memory
// sampling and deadline expiry.
const DefaultPollInterval = 50 * time.Millisecond

// Result reports the outcome of one supervised subprocess run.
type Result struct {
	// ExitCode is the child's exit status. Classifying a non-zero exit is
	// the caller's business; the runner only reports it.
	ExitCode int

	// PeakMemoryBytes is the running maximum RSS observed across poll
	// ticks, nil when sampling is disabled.
	PeakMemoryBytes *uint64

	// ElapsedMS is total wall-clock time from spawn to exit.
	ElapsedMS int64

	Stdout []byte
	Stderr []byte
}

// Observer is notified of supervised execution outcomes, keyed by the
// child's binary name. Nil observers are allowed everywhere.
type Observer interface {
	// RecordSubprocess reports one completed execution, successful or not.
	RecordSubprocess(command string, success bool, seconds float64)
	// RecordTimeout reports one deadline kill.
	RecordTimeout(command string)
}

// Runner executes subprocesses under supervision.
type Runner struct {
	// PollInterval between liveness/memory checks. Zero means
	// DefaultPollInterval.
	PollInterval time.Duration

	// Sampler reads the child's resident memory. Nil means no sampling.
	Sampler Sampler

	// Observer receives execution outcomes. Nil means no instrumentation.
	Observer Observer
}

// New creates a Runner with the default poll interval.
func New(sampler Sampler) *Runner {
	return &Runner{
		PollInterval: DefaultPollInterval,
		Sampler:      sampler,
	}
}

// Run spawns cmd and supervises it until exit or deadline. A timeout of zero
// means no deadline. On timeout the child is forcibly killed, its resources
// are reaped, and a Timeout error is returned; there is no retry and no
// cooperative cancellation.
func (r *Runner) Run(cmd *exec.Cmd, timeout time.Duration) (*Result, error) {
	interval := r.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = nil
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, errors.NewSpawnFailureError(cmd.Path, err)
	}
	pid := int32(cmd.Process.Pid)

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	sampling := r.Sampler != nil && r.Sampler.Enabled()
	var peakRSS uint64

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case waitErr := <-waitCh:
			elapsedMS := time.Since(start).Milliseconds()
			if waitErr != nil {
				if _, ok := waitErr.(*exec.ExitError); !ok {
					return nil, errors.Wrap(errors.ErrCodeExecSpawnFailure,
						"subprocess wait failed", waitErr)
				}
			}
			result := &Result{
				ExitCode:  cmd.ProcessState.ExitCode(),
				ElapsedMS: elapsedMS,
				Stdout:    stdout.Bytes(),
				Stderr:    stderr.Bytes(),
			}
			if sampling {
				result.PeakMemoryBytes = &peakRSS
			}
			if r.Observer != nil {
				r.Observer.RecordSubprocess(filepath.Base(cmd.Path),
					result.ExitCode == 0, float64(elapsedMS)/1000.0)
			}
			return result, nil

		case <-ticker.C:
			if sampling {
				if rss, err := r.Sampler.Sample(pid); err == nil && rss > peakRSS {
					peakRSS = rss
				}
			}
			if timeout > 0 && time.Since(start) >= timeout {
				_ = cmd.Process.Kill()
				<-waitCh
				if r.Observer != nil {
					r.Observer.RecordTimeout(filepath.Base(cmd.Path))
				}
				return nil, errors.NewTimeoutError(cmd.Path, time.Since(start).Milliseconds())
			}
		}
	}
}

// RunOnce is a convenience for unsupervised single-shot commands that still
// want consistent error classification: it runs the child to completion with
// no deadline and no memory sampling.
func RunOnce(cmd *exec.Cmd) (*Result, error) {
	r := Runner{Sampler: NoopSampler{}}
	return r.Run(cmd, 0)
}
