package service

import "fmt"

// Op names the backend call that failed
type Op string

const (
	OpRecognition Op = "recognition"
	OpNarration   Op = "narration"
)

// HTTPError is returned when a backend answers outside the 2xx range
type HTTPError struct {
	Op         Op
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s service returned status %d", e.Op, e.StatusCode)
}

// LogicalError is returned when a backend answers 2xx with success=false.
// Message is empty when the server did not explain the failure.
type LogicalError struct {
	Op      Op
	Message string
}

func (e *LogicalError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}
