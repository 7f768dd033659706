package arso

import (
	"errors"
	"fmt"
)

// ErrorKind classifies source adapter failures.
type ErrorKind string

const (
	// KindUnavailable covers network failures and non-success HTTP status.
	KindUnavailable ErrorKind = "unavailable"
	// KindMalformed covers parse and schema failures.
	KindMalformed ErrorKind = "malformed"
	// KindIncomplete covers well-formed payloads missing expected data.
	KindIncomplete ErrorKind = "incomplete"
	// KindCoordinates means the location has no known geo-position.
	KindCoordinates ErrorKind = "coordinates"
	// KindTimeout means the whole refresh cycle exceeded its deadline.
	KindTimeout ErrorKind = "timeout"
)

// ErrNotReady is returned by snapshot reads before the first successful
// publish.
var ErrNotReady = errors.New("no snapshot published yet")

// SourceError is a failure of one upstream source, tagged with the source
// name and a failure kind so the coordinator can degrade the right snapshot
// section.
type SourceError struct {
	Source string
	Kind   ErrorKind
	Err    error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Kind)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError builds a tagged source failure.
func NewSourceError(source string, kind ErrorKind, err error) *SourceError {
	return &SourceError{Source: source, Kind: kind, Err: err}
}

// IsKind reports whether err is a SourceError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *SourceError
	return errors.As(err, &se) && se.Kind == kind
}
