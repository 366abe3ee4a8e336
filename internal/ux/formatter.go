// Package ux renders command output: machine formats for scripting and
// styled terminal summaries for humans.
package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Formatter serializes one command result to a writer. Records, gate
// reports, and regression reports all print through a Formatter so every
// command honors the same --format values.
type Formatter interface {
	Format(data any) error
}

// FormatterOptions selects the destination and density of the output.
type FormatterOptions struct {
	// Writer defaults to os.Stdout.
	Writer io.Writer
	// Compact drops indentation, one value per line.
	Compact bool
}

// NewFormatter returns the formatter for a --format flag value.
func NewFormatter(format string, opts *FormatterOptions) (Formatter, error) {
	if opts == nil {
		opts = &FormatterOptions{}
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch format {
	case "json", "":
		return &JSONFormatter{opts: opts}, nil
	case "yaml":
		return &YAMLFormatter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: json, yaml)", format)
	}
}

// JSONFormatter emits indented JSON, or one object per line when compact.
type JSONFormatter struct {
	opts *FormatterOptions
}

func (f *JSONFormatter) Format(data any) error {
	encoder := json.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// YAMLFormatter emits YAML with two-space indentation.
type YAMLFormatter struct {
	opts *FormatterOptions
}

func (f *YAMLFormatter) Format(data any) error {
	encoder := yaml.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent(2)
	}
	defer encoder.Close()
	return encoder.Encode(data)
}
