package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	origVersion := Version
	origCommit := Commit
	origDate := Date
	Version = "1.0.0"
	Commit = "abc123def456"
	Date = "2024-01-01T12:00:00Z"
	defer func() {
		Version = origVersion
		Commit = origCommit
		Date = origDate
	}()

	info := GetInfo()

	if info.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", info.Version, "1.0.0")
	}
	if info.Commit != "abc123def456" {
		t.Errorf("Commit = %q, want %q", info.Commit, "abc123def456")
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if !strings.Contains(info.Platform, runtime.GOOS) {
		t.Errorf("Platform %q missing GOOS", info.Platform)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		Commit:    "abcdef0123456789",
		Date:      "2024-06-01",
		GoVersion: "go1.24",
		Platform:  "linux/amd64",
	}
	s := info.String()
	if !strings.Contains(s, "zkbench 1.2.3") {
		t.Errorf("String() = %q, missing version", s)
	}
	if !strings.Contains(s, "abcdef01") || strings.Contains(s, "abcdef0123") {
		t.Errorf("String() = %q, commit not shortened to 8 chars", s)
	}
}

func TestInfoShort(t *testing.T) {
	info := Info{Version: "2.0.0"}
	if info.Short() != "2.0.0" {
		t.Errorf("Short() = %q, want %q", info.Short(), "2.0.0")
	}
}
