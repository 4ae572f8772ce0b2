package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the root of every validation failure. Malformed
	// queries and bad record fields both wrap it.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID indicates a record with the same identity already exists.
	ErrDuplicateID = errors.New("duplicate id")
)

var (
	ErrInvalidAmount    = fmt.Errorf("%w: invalid amount", ErrInvalidArgument)
	ErrAmountOverflow   = fmt.Errorf("%w: total exceeds the largest supported amount", ErrInvalidAmount)
	ErrInvalidDate      = fmt.Errorf("%w: invalid date", ErrInvalidArgument)
	ErrInvalidRange     = fmt.Errorf("%w: invalid range", ErrInvalidArgument)
	ErrUnknownCategory  = fmt.Errorf("%w: unknown category", ErrInvalidArgument)
	ErrUnknownCycle     = fmt.Errorf("%w: unknown billing cycle", ErrInvalidArgument)
	ErrUnknownStrength  = fmt.Errorf("%w: unknown password strength", ErrInvalidArgument)
	ErrUnknownSortKey   = fmt.Errorf("%w: unknown sort key", ErrInvalidArgument)
	ErrEmptyName        = fmt.Errorf("%w: empty name", ErrInvalidArgument)
	ErrNameTooLong      = fmt.Errorf("%w: name too long (max %d characters)", ErrInvalidArgument, MaxNameLength)
	ErrInvalidYear      = fmt.Errorf("%w: invalid vehicle year", ErrInvalidArgument)
	ErrEmptyPlate       = fmt.Errorf("%w: empty license plate", ErrInvalidArgument)
	ErrMissingVehicle   = fmt.Errorf("%w: missing vehicle id", ErrInvalidArgument)
	ErrNegativeDuration = fmt.Errorf("%w: negative threshold", ErrInvalidArgument)
)
