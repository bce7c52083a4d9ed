package narrator

import (
	"errors"
	"fmt"

	"github.com/artifact-narrator/narrator/internal/locale"
	"github.com/artifact-narrator/narrator/internal/service"
)

var (
	// ErrNoFileSelected is returned when submit is triggered without an image
	ErrNoFileSelected = errors.New("no file selected")
	// ErrBusy is returned when a submit arrives while another is in flight
	ErrBusy = errors.New("a submission is already in progress")
)

// Kind classifies a run failure
type Kind string

const (
	KindNone                    Kind = ""
	KindNoFileSelected          Kind = "NoFileSelected"
	KindRecognitionHTTPError    Kind = "RecognitionHttpError"
	KindRecognitionLogicalError Kind = "RecognitionLogicalError"
	KindNarrationHTTPError      Kind = "NarrationHttpError"
	KindNarrationLogicalError   Kind = "NarrationLogicalError"
	KindBusy                    Kind = "Busy"
	KindTransport               Kind = "Transport"
)

// KindOf returns the kind of err, KindTransport for anything unclassified
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrNoFileSelected) {
		return KindNoFileSelected
	}
	if errors.Is(err, ErrBusy) {
		return KindBusy
	}

	var httpErr *service.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Op == service.OpNarration {
			return KindNarrationHTTPError
		}
		return KindRecognitionHTTPError
	}

	var logicErr *service.LogicalError
	if errors.As(err, &logicErr) {
		if logicErr.Op == service.OpNarration {
			return KindNarrationLogicalError
		}
		return KindRecognitionLogicalError
	}

	return KindTransport
}

// Describe renders err as the reason shown after the failure prefix
func Describe(err error, cat locale.Catalog) string {
	var httpErr *service.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Op == service.OpNarration {
			return fmt.Sprintf(cat.NarrationHTTPError, httpErr.StatusCode)
		}
		return fmt.Sprintf(cat.RecognitionHTTPError, httpErr.StatusCode)
	}

	var logicErr *service.LogicalError
	if errors.As(err, &logicErr) {
		if logicErr.Message != "" {
			return logicErr.Message
		}
		if logicErr.Op == service.OpNarration {
			return cat.NarrationFailed
		}
		return cat.RecognitionFailed
	}

	return err.Error()
}
