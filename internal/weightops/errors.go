package weightops

import "errors"

var (
	// ErrNilObject is returned when an operation is given a nil object.
	ErrNilObject = errors.New("object is nil")
	// ErrSameObject is returned when a transfer's source and target are the same object.
	ErrSameObject = errors.New("source and target are the same object")
	// ErrNoSourceGroups is returned when the transfer source has no vertex groups.
	ErrNoSourceGroups = errors.New("source has no vertex groups")
	// ErrInvalidParameter is returned for out-of-range operation parameters.
	ErrInvalidParameter = errors.New("invalid parameter")
)
