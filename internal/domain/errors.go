package domain

import "errors"

var (
	// ErrCatalogUnavailable is returned when the commerce-search collaborator
	// failed, timed out, or sent an unparseable payload. Recoverable: callers
	// degrade to a plain ingredient list and may retry on user request.
	ErrCatalogUnavailable = errors.New("product catalog unavailable")

	// ErrUnknownCandidate is returned when a selection references a candidate
	// id that is not in the ingredient's current candidate list. Benign no-op:
	// a stale UI click racing a catalog refresh, not a programming error.
	ErrUnknownCandidate = errors.New("candidate not in current match list")

	// ErrUnknownIngredient is returned when an operation names an ingredient
	// with no entry in the current catalog. Benign no-op.
	ErrUnknownIngredient = errors.New("ingredient not in current catalog")

	// ErrCheckoutFailed is returned when the commerce-checkout collaborator
	// rejected or errored. Recoverable: cart state is preserved unchanged.
	ErrCheckoutFailed = errors.New("checkout request failed")

	// ErrCheckoutInFlight is returned when a checkout is requested while one
	// is already outstanding for the same session.
	ErrCheckoutInFlight = errors.New("checkout already in progress")

	// ErrSessionNotFound is returned when a cart session id is unknown or
	// expired.
	ErrSessionNotFound = errors.New("cart session not found")

	// ErrEmptyCart is returned when checkout is requested with no
	// non-excluded selections.
	ErrEmptyCart = errors.New("cart has no selected items")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when a catalog snapshot is not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)
