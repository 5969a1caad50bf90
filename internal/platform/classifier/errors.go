package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactUnavailable is returned when the classifier artifact is
	// missing, unreadable or structurally invalid. No scoring can happen.
	ErrArtifactUnavailable = errors.New("classifier artifact unavailable")

	// ErrScoring is returned when a frame cannot be scored by a loaded model.
	ErrScoring = errors.New("scoring failed")
)

// ScoringError describes why a single frame could not be scored.
type ScoringError struct {
	Column string
	Reason string
}

func (e *ScoringError) Error() string {
	if e.Column == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Column, e.Reason)
}

func (e *ScoringError) Unwrap() error { return ErrScoring }

func scoringErr(column, format string, args ...interface{}) error {
	return &ScoringError{Column: column, Reason: fmt.Sprintf(format, args...)}
}

func unavailable(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrArtifactUnavailable, fmt.Sprintf(format, args...))
}
