package runner

import (
	"github.com/shirou/gopsutil/v4/process"
)

// Sampler reads a process's resident memory during supervision. Sampling is
// an optional capability: a disabled sampler simply yields no peak-memory
// figure for the run.
type Sampler interface {
	// Enabled reports whether Sample should be consulted at all.
	Enabled() bool

	// Sample returns the current resident set size of the process in bytes.
	Sample(pid int32) (uint64, error)
}

// NoopSampler disables memory sampling.
type NoopSampler struct{}

// Enabled always reports false.
func (NoopSampler) Enabled() bool { return false }

// Sample always returns zero.
func (NoopSampler) Sample(int32) (uint64, error) { return 0, nil }

// RSSSampler reads resident memory via the OS process table.
type RSSSampler struct{}

// Enabled always reports true.
func (RSSSampler) Enabled() bool { return true }

// Sample returns the process's current RSS in bytes.
func (RSSSampler) Sample(pid int32) (uint64, error) {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return 0, err
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return info.RSS, nil
}
