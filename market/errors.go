package market

import "github.com/pkg/errors"

// Sentinel errors reported to the command layer. Callers match them with
// errors.Is; wrapping inside the package keeps the chain intact.
var (
	// ErrInvalidArgument indicates a rejected offer parameter, e.g. a zero amount.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound indicates that no offer carries the requested id.
	ErrNotFound = errors.New("offer not found")
	// ErrUnauthorized indicates a delete attempt by neither the seller nor staff.
	ErrUnauthorized = errors.New("not authorized")
	// ErrStorage indicates that a mutation could not be persisted. The
	// in-memory change is kept; the next successful save re-synchronizes
	// the file.
	ErrStorage = errors.New("storage unavailable")
)
