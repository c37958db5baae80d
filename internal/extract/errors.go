package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrNavigation means the entity document could not be reached.
	ErrNavigation = errors.New("navigation failed")
	// ErrReadinessTimeout means the document's marker element never appeared.
	ErrReadinessTimeout = errors.New("readiness timeout")
	// ErrListingUnavailable means no listing section ever became ready.
	ErrListingUnavailable = errors.New("listing discovery failed")
)

// Stage names the unit of work an extraction failure belongs to.
type Stage string

const (
	StageListing Stage = "listing"
	StageArtist  Stage = "artist"
	StageAlbum   Stage = "album"
)

// ExtractionError reports a failed entity extraction.
type ExtractionError struct {
	Stage   Stage
	Locator string
	Reason  error
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s %s: %v", e.Stage, e.Locator, e.Reason)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Stage, e.Locator, e.Reason, e.Cause)
}

func (e *ExtractionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Cause}
}

func failure(stage Stage, loc string, reason, cause error) *ExtractionError {
	return &ExtractionError{Stage: stage, Locator: loc, Reason: reason, Cause: cause}
}
