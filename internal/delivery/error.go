package delivery

import "errors"

var (
	// -- Policy --
	ErrOrderingClosed = errors.New("ordering is closed at this hour")

	// -- Configuration --
	ErrNoWindows         = errors.New("no delivery windows configured")
	ErrInvalidWindow     = errors.New("invalid delivery window")
	ErrOverlappingWindow = errors.New("delivery windows overlap")
)
