package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationNotFound is returned when a search matches no location.
	ErrLocationNotFound = errors.New("location not found")

	// ErrTooManyLocations is returned when a search matches more locations
	// than the caller accepts.
	ErrTooManyLocations = errors.New("too many locations")
)

// BadContentMessage is the RemoteServiceError message used when an upstream
// body cannot be decoded.
const BadContentMessage = "bad content"

// RemoteServiceError reports a failed call to the weather API: a non-success
// status, an undecodable body, or a transport failure.
type RemoteServiceError struct {
	StatusCode int    // 0 when no HTTP status was received
	Message    string // set when the failure is not a status code
	Err        error
}

func (e *RemoteServiceError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("remote service error: status %d: %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("remote service error: status %d", e.StatusCode)
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("remote service error: %s: %v", e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("remote service error: %v", e.Err)
	default:
		return "remote service error: " + e.Message
	}
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// NoForecastForTodayError is returned when a forecast bundle holds no day
// record for the location's local date.
type NoForecastForTodayError struct {
	Date string // YYYY-MM-DD in the location's offset
}

func (e *NoForecastForTodayError) Error() string {
	return fmt.Sprintf("no forecast for today (%s)", e.Date)
}

// IsRemoteServiceError reports whether err is or wraps a RemoteServiceError.
func IsRemoteServiceError(err error) bool {
	var rse *RemoteServiceError
	return errors.As(err, &rse)
}

// IsNoForecastForToday reports whether err is or wraps a NoForecastForTodayError.
func IsNoForecastForToday(err error) bool {
	var nf *NoForecastForTodayError
	return errors.As(err, &nf)
}
