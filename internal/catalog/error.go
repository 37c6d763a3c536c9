package catalog

import "errors"

var (
	// -- Lookup --
	ErrProductNotFound = errors.New("product not found")
	ErrPackageNotFound = errors.New("package not found")

	// -- Catalog construction --
	ErrInvalidProduct     = errors.New("invalid product")
	ErrDuplicateID        = errors.New("duplicate catalog id")
	ErrInvalidPersonCount = errors.New("package person count must be at least 1")
	ErrNoCategories       = errors.New("package has no categories")
	ErrEmptyCategory      = errors.New("package category has no options")
	ErrDuplicateCategory  = errors.New("duplicate package category")
	ErrDuplicateOption    = errors.New("duplicate package option")
	ErrInvalidPrice       = errors.New("price must not be negative")
)
