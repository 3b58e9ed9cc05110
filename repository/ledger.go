package repository

import "context"

// FollowUpLedger remembers which completed tasks already produced their
// recurring follow-up.
type FollowUpLedger interface {
	// Claim marks sourceID as materialized and reports whether this call
	// made the transition. It must be an atomic check-and-set.
	Claim(ctx context.Context, sourceID string) (bool, error)
	// Release undoes a claim whose follow-up could not be stored.
	Release(ctx context.Context, sourceID string) error
	IsMaterialized(ctx context.Context, sourceID string) (bool, error)
}
