// Package provenance collects metadata about the tools and environment a
// benchmark ran under, as a sidecar to the record schema. Attaching it to
// reports makes regressions diagnosable when the toolchain itself changed
// between runs.
package provenance

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/felixgeelhaar/zkbench/internal/schema"
	"github.com/felixgeelhaar/zkbench/internal/version"
)

// Provenance describes one benchmark run's tool and system context.
type Provenance struct {
	ZKBench     ToolInfo   `json:"zkbench"`
	Nargo       *ToolInfo  `json:"nargo,omitempty"`
	Backend     *ToolInfo  `json:"backend,omitempty"`
	System      SystemInfo `json:"system"`
	CLIArgs     []string   `json:"cli_args,omitempty"`
	CollectedAt string     `json:"collected_at"`
}

// ToolInfo identifies one binary.
type ToolInfo struct {
	Name     string  `json:"name"`
	Version  *string `json:"version,omitempty"`
	GitSHA   *string `json:"git_sha,omitempty"`
	GitDirty *bool   `json:"git_dirty,omitempty"`
	Path     *string `json:"path,omitempty"`
}

// SystemInfo describes the host.
type SystemInfo struct {
	OS       string  `json:"os"`
	Arch     string  `json:"arch"`
	CPUBrand *string `json:"cpu_brand,omitempty"`
	CPUCores *uint32 `json:"cpu_cores,omitempty"`
	RAMBytes *uint64 `json:"ram_bytes,omitempty"`
	Hostname *string `json:"hostname,omitempty"`
}

// Collect gathers full provenance, probing nargo and the backend binary.
// Probes that fail leave their fields nil.
func Collect(bbPath string) Provenance {
	if bbPath == "" {
		bbPath = "bb"
	}
	return Provenance{
		ZKBench:     selfInfo(),
		Nargo:       binaryInfo("nargo", "nargo"),
		Backend:     binaryInfo("barretenberg", bbPath),
		System:      collectSystem(),
		CLIArgs:     os.Args,
		CollectedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// CollectMinimal gathers provenance without shelling out, for tests.
func CollectMinimal() Provenance {
	v := version.Version
	return Provenance{
		ZKBench: ToolInfo{Name: "zkbench", Version: &v},
		System: SystemInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
		CollectedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func selfInfo() ToolInfo {
	v := version.Version
	info := ToolInfo{Name: "zkbench", Version: &v}
	info.GitSHA = schema.DetectGitSHA()
	info.GitDirty = schema.DetectGitDirty()
	if exe, err := os.Executable(); err == nil {
		info.Path = &exe
	}
	return info
}

func binaryInfo(name, path string) *ToolInfo {
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return nil
	}
	v := strings.TrimSpace(string(out))
	info := &ToolInfo{Name: name, Version: &v}
	if resolved, err := exec.LookPath(path); err == nil {
		info.Path = &resolved
	}
	return info
}

func collectSystem() SystemInfo {
	info := SystemInfo{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 && infos[0].ModelName != "" {
		brand := infos[0].ModelName
		info.CPUBrand = &brand
	}
	if cores, err := cpu.Counts(false); err == nil && cores > 0 {
		n := uint32(cores)
		info.CPUCores = &n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		total := vm.Total
		info.RAMBytes = &total
	}
	if host, err := os.Hostname(); err == nil {
		info.Hostname = &host
	}
	return info
}

// VersionMismatch records a tool whose version differs between baseline
// and target provenance.
type VersionMismatch struct {
	Tool            string  `json:"tool"`
	BaselineVersion *string `json:"baseline_version,omitempty"`
	TargetVersion   *string `json:"target_version,omitempty"`
}

// CheckVersionMismatches compares two provenance snapshots and reports
// tools whose versions differ, plus OS or architecture changes.
func CheckVersionMismatches(baseline, target *Provenance) []VersionMismatch {
	var mismatches []VersionMismatch

	if baseline.Nargo != nil && target.Nargo != nil &&
		!equalVersion(baseline.Nargo.Version, target.Nargo.Version) {
		mismatches = append(mismatches, VersionMismatch{
			Tool:            "nargo",
			BaselineVersion: baseline.Nargo.Version,
			TargetVersion:   target.Nargo.Version,
		})
	}

	if baseline.Backend != nil && target.Backend != nil &&
		!equalVersion(baseline.Backend.Version, target.Backend.Version) {
		mismatches = append(mismatches, VersionMismatch{
			Tool:            "barretenberg",
			BaselineVersion: baseline.Backend.Version,
			TargetVersion:   target.Backend.Version,
		})
	}

	if baseline.System.OS != target.System.OS || baseline.System.Arch != target.System.Arch {
		b := fmt.Sprintf("%s/%s", baseline.System.OS, baseline.System.Arch)
		t := fmt.Sprintf("%s/%s", target.System.OS, target.System.Arch)
		mismatches = append(mismatches, VersionMismatch{
			Tool:            "system",
			BaselineVersion: &b,
			TargetVersion:   &t,
		})
	}

	return mismatches
}

func equalVersion(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
