package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity  = errors.New("invalid cart quantity")
	ErrInvalidPrice     = errors.New("invalid cart price")
	ErrInvalidLineID    = errors.New("invalid cart line id")
	ErrLineKindMismatch = errors.New("cart line kind mismatch")
	ErrMissingSession   = errors.New("missing cart session")

	// -- Resource State --
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidSnapshot = errors.New("invalid cart snapshot")

	// -- Database & Operation Failures --
	ErrFailedLoadSnapshot = errors.New("failed to load cart snapshot")
	ErrFailedSaveSnapshot = errors.New("failed to save cart snapshot")
)
