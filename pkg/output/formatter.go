// Package output formats scoring results for the CLI surface.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Formatter renders a result value to bytes.
type Formatter interface {
	Format(data any, pretty bool) ([]byte, error)
}

// ForFormat returns the formatter for a format name, defaulting to JSON.
func ForFormat(format string) Formatter {
	switch format {
	case "yaml":
		return &YAMLFormatter{}
	case "text":
		return &TextFormatter{}
	default:
		return &JSONFormatter{}
	}
}

// JSONFormatter renders JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any, pretty bool) ([]byte, error) {
	if pretty {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return append(out, '\n'), nil
	}
	out, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return append(out, '\n'), nil
}

// YAMLFormatter renders YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(data any, _ bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close yaml encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// TextFormatter renders a human-readable summary for values that
// implement Summarizer, and falls back to pretty JSON otherwise.
type TextFormatter struct{}

// Summarizer lets result types provide their own console rendering.
type Summarizer interface {
	Summary() string
}

func (f *TextFormatter) Format(data any, pretty bool) ([]byte, error) {
	if s, ok := data.(Summarizer); ok {
		return []byte(s.Summary()), nil
	}
	return (&JSONFormatter{}).Format(data, true)
}
