// Package faults holds the sentinel errors shared across the core so the
// transport layer can map them to status codes without knowing the domain
// packages that produced them.
package faults

import "errors"

var (
	// ErrNotAuthenticated means no identity was supplied; recoverable by re-login.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUnavailable means the account directory could not be reached. Callers
	// must never treat it as "record not found".
	ErrUnavailable = errors.New("account directory unavailable")

	// ErrValidation covers user-correctable input problems.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is a uniqueness-constraint rejection from the directory.
	ErrConflict = errors.New("record already exists")

	ErrAlreadyOnboarded  = errors.New("identity already has an account")
	ErrDuplicateShopCode = errors.New("shop code already taken")
	ErrOwnerHasShop      = errors.New("owner already has a shop")

	// ErrShopNotFound is a routing state, not a failure: the owner exists but
	// has not finished shop setup yet.
	ErrShopNotFound = errors.New("shop not found")
)
