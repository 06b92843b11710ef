package atlas

import (
	"errors"
	"fmt"
)

// Sentinel errors. Entry-scoped decode failures are wrapped in a
// DecodeError; unwrapping reaches these, so callers can classify with
// errors.Is.
var (
	// ErrMalformedField indicates a sheet entry field that is missing,
	// of the wrong type, or an unparseable numeric string.
	ErrMalformedField = errors.New("atlas: malformed field")

	// ErrRectOutOfBounds indicates a texture rect that does not fit the
	// texture's pixel dimensions.
	ErrRectOutOfBounds = errors.New("atlas: texture rect out of bounds")

	// ErrPolygonIndex indicates polygon data whose triangle indices
	// reference vertices that do not exist, or whose vertex/index lists
	// have invalid lengths.
	ErrPolygonIndex = errors.New("atlas: polygon index out of range")

	// ErrUnsupportedFormat indicates an unrecognized sheet format
	// version. Versions 0 through 3 are supported.
	ErrUnsupportedFormat = errors.New("atlas: unsupported sheet format")

	// ErrUnknownSource indicates a reload or rebind of a source that was
	// never ingested.
	ErrUnknownSource = errors.New("atlas: source not loaded")

	// ErrNoTexture indicates a sheet whose texture could not be
	// resolved; ingestion of the whole sheet is aborted.
	ErrNoTexture = errors.New("atlas: no texture for sheet")
)

// DecodeError describes a failure decoding a single sheet entry.
// It is entry-scoped: ingestion skips the entry and continues.
type DecodeError struct {
	Frame string // frame name within the sheet
	Field string // offending field, when known
	Err   error  // underlying cause; wraps a sentinel
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("atlas: frame %q: field %q: %v", e.Frame, e.Field, e.Err)
	}
	return fmt.Sprintf("atlas: frame %q: %v", e.Frame, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// decodeErr builds an entry-scoped DecodeError around a sentinel, with
// an optional detail cause.
func decodeErr(frame, field string, sentinel, cause error) *DecodeError {
	err := sentinel
	if cause != nil {
		err = fmt.Errorf("%w: %v", sentinel, cause)
	}
	return &DecodeError{Frame: frame, Field: field, Err: err}
}
