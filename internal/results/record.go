package results

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/artifact-narrator/narrator/internal/ui"
	"gopkg.in/yaml.v3"
)

// RunRecord is the outcome of one submit action
type RunRecord struct {
	ID        string        `json:"id" yaml:"id"`
	Filename  string        `json:"filename" yaml:"filename"`
	BaseURL   string        `json:"base_url" yaml:"base_url"`
	Locale    string        `json:"locale" yaml:"locale"`
	State     ui.State      `json:"state" yaml:"state"`
	Kind      string        `json:"kind,omitempty" yaml:"kind,omitempty"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Succeeded reports whether the run rendered a narration
func (r *RunRecord) Succeeded() bool {
	return r.State.Status == ui.StatusSucceeded
}

// SaveYAML writes the record to path, creating parent directories
func SaveYAML(record *RunRecord, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

// LoadYAML reads a record written by SaveYAML
func LoadYAML(path string) (*RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}

	var record RunRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file: %w", err)
	}
	return &record, nil
}

// Write prints the record in the given format (text, json or yaml)
func Write(w io.Writer, record *RunRecord, format string) error {
	switch format {
	case "text", "":
		return writeText(w, record)
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(record)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(record)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeText(w io.Writer, record *RunRecord) error {
	state := record.State

	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, state.Message)
	fmt.Fprintln(w, "========================================")

	if state.Details.Placeholder != "" {
		fmt.Fprintln(w, state.Details.Placeholder)
	}
	for _, e := range state.Details.Entries {
		fmt.Fprintf(w, "%s: %s\n", e.Label, e.Value)
	}

	if state.Narration != "" {
		if !state.Details.Empty() {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, state.Narration)
	}

	_, err := fmt.Fprintln(w, "========================================")
	return err
}
