package schema

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// EnvironmentInfo captures the machine and tool versions a benchmark ran on.
// Every probe is best-effort; a field that cannot be detected stays nil.
type EnvironmentInfo struct {
	CPUModel      *string `json:"cpu_model,omitempty"`
	CPUCores      *uint32 `json:"cpu_cores,omitempty"`
	TotalRAMBytes *uint64 `json:"total_ram_bytes,omitempty"`
	OS            string  `json:"os"`
	Hostname      *string `json:"hostname,omitempty"`
	GitSHA        *string `json:"git_sha,omitempty"`
	GitDirty      *bool   `json:"git_dirty,omitempty"`
	NargoVersion  *string `json:"nargo_version,omitempty"`
	BBVersion     *string `json:"bb_version,omitempty"`
}

// DefaultEnvironment returns an EnvironmentInfo with only the OS populated.
func DefaultEnvironment() EnvironmentInfo {
	return EnvironmentInfo{OS: runtime.GOOS}
}

// DetectEnvironment probes the current system and local tools.
func DetectEnvironment() EnvironmentInfo {
	env := DefaultEnvironment()

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		model := infos[0].ModelName
		if model != "" {
			env.CPUModel = &model
		}
	}
	if cores, err := cpu.Counts(false); err == nil && cores > 0 {
		c := uint32(cores)
		env.CPUCores = &c
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		total := vm.Total
		env.TotalRAMBytes = &total
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		env.Hostname = &hostname
	}

	env.GitSHA = DetectGitSHA()
	env.GitDirty = DetectGitDirty()
	env.NargoVersion = probeVersion("nargo")
	env.BBVersion = probeVersion("bb")

	return env
}

// DetectEnvironmentWithBBPath probes the system using an explicit bb binary.
func DetectEnvironmentWithBBPath(bbPath string) EnvironmentInfo {
	env := DetectEnvironment()
	if bbPath != "" {
		env.BBVersion = probeVersion(bbPath)
	}
	return env
}

// DetectGitSHA returns the current HEAD commit, if inside a git repo.
func DetectGitSHA() *string {
	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return nil
	}
	sha := strings.TrimSpace(string(out))
	if sha == "" {
		return nil
	}
	return &sha
}

// DetectGitDirty reports whether the working tree has uncommitted changes.
func DetectGitDirty() *bool {
	out, err := exec.Command("git", "status", "--porcelain").Output()
	if err != nil {
		return nil
	}
	dirty := len(out) > 0
	return &dirty
}

// probeVersion runs `<binary> --version` and returns trimmed stdout.
func probeVersion(binary string) *string {
	out, err := exec.Command(binary, "--version").Output()
	if err != nil {
		return nil
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return nil
	}
	return &version
}
