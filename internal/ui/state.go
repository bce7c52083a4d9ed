package ui

import (
	"github.com/artifact-narrator/narrator/internal/format"
	"github.com/artifact-narrator/narrator/internal/locale"
)

// Status is the stage of the current submit action
type Status string

const (
	StatusIdle       Status = "idle"
	StatusUploading  Status = "uploading"
	StatusRecognized Status = "recognized"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// Style is the presentation class of the status message
type Style string

const (
	StylePending Style = "pending"
	StyleSuccess Style = "success"
	StyleError   Style = "error"
)

// State is everything a view needs to draw the page
type State struct {
	Status         Status         `json:"status" yaml:"status"`
	Message        string         `json:"message" yaml:"message"`
	Style          Style          `json:"style" yaml:"style"`
	ResultsVisible bool           `json:"results_visible" yaml:"results_visible"`
	Details        format.Details `json:"details" yaml:"details"`
	Narration      string         `json:"narration" yaml:"narration"`
}

// Idle returns the state before any submit action
func Idle() State {
	return State{Status: StatusIdle}
}

// Event is an input to Reduce
type Event interface {
	event()
}

// NoFile is emitted when submit is triggered without a selected file
type NoFile struct{}

// Started is emitted when the upload begins
type Started struct{}

// Recognized carries the formatted recognition result
type Recognized struct {
	Details format.Details
}

// Narrated carries the narration text
type Narrated struct {
	Text string
}

// Failed carries the localized reason a run was aborted
type Failed struct {
	Reason string
}

func (NoFile) event()     {}
func (Started) event()    {}
func (Recognized) event() {}
func (Narrated) event()   {}
func (Failed) event()     {}

// Reduce returns the state that follows s after e. It never mutates s.
func Reduce(s State, e Event, cat locale.Catalog) State {
	switch ev := e.(type) {
	case NoFile:
		s.Status = StatusFailed
		s.Message = cat.NoFileSelected
		s.Style = StyleError
	case Started:
		s = State{
			Status:    StatusUploading,
			Message:   cat.Uploading,
			Style:     StylePending,
			Narration: cat.NarrationLoading,
		}
	case Recognized:
		s.Status = StatusRecognized
		s.Message = cat.Recognized
		s.Style = StyleSuccess
		s.Details = ev.Details
	case Narrated:
		s.Status = StatusSucceeded
		s.Message = cat.Succeeded
		s.Style = StyleSuccess
		s.Narration = ev.Text
		s.ResultsVisible = true
	case Failed:
		s.Status = StatusFailed
		s.Message = cat.FailedPrefix + ev.Reason
		s.Style = StyleError
		s.Narration = cat.NarrationFallback
	}
	return s
}
