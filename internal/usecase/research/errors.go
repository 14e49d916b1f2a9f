package research

import "errors"

var (
	// ErrNoDiscoveryProvider is returned when no discovery provider is configured.
	ErrNoDiscoveryProvider = errors.New("no discovery provider configured")

	// ErrInvalidBackfill wraps every rejected backfill argument.
	ErrInvalidBackfill = errors.New("invalid backfill request")

	// ErrInvalidCandidate is returned for a discovered model without a name.
	ErrInvalidCandidate = errors.New("discovered model has no name")

	errEmptyResult = errors.New("empty result")
	errNoProvider  = errors.New("no provider configured")
)
