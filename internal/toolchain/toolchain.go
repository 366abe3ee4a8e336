// Package toolchain abstracts circuit compilation and witness generation.
// These operations belong to the Noir toolchain and are independent of the
// proving backend, so different nargo releases can pair with different
// proving systems.
package toolchain

import (
	"strings"
	"unicode"
)

// CompileArtifacts is the result of compiling a circuit project.
type CompileArtifacts struct {
	// ArtifactPath points at the compiled program JSON under target/.
	ArtifactPath string
	// CompileTimeMS is wall-clock compilation time.
	CompileTimeMS int64
}

// WitnessArtifact is the result of witness generation.
type WitnessArtifact struct {
	// WitnessPath points at the generated witness file.
	WitnessPath string
	// WitnessGenTimeMS is wall-clock generation time.
	WitnessGenTimeMS int64
}

// Toolchain compiles circuits and generates witnesses.
type Toolchain interface {
	// Name returns the toolchain name (e.g. "nargo").
	Name() string

	// Version returns the detected toolchain version.
	Version() (string, error)

	// Compile builds the project at projectDir (containing Nargo.toml)
	// and returns the compiled artifact.
	Compile(projectDir string) (*CompileArtifacts, error)

	// GenWitness executes the artifact against prover inputs and returns
	// the witness file.
	GenWitness(artifact, proverInputs string) (*WitnessArtifact, error)
}

// ParseNargoVersion extracts a version string from `nargo --version`
// output. Known formats are "nargo version = 0.38.0", "nargo 0.38.0", and
// a bare version; anything unrecognized comes back verbatim.
func ParseNargoVersion(output string) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return ""
	}

	if rest, ok := strings.CutPrefix(output, "nargo version = "); ok {
		return firstField(rest)
	}
	if rest, ok := strings.CutPrefix(output, "nargo "); ok {
		return firstField(rest)
	}

	first := firstField(output)
	if first != "" && unicode.IsDigit(rune(first[0])) {
		return first
	}
	return output
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
