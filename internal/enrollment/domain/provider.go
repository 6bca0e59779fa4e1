package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Provider grants and revokes course access. Enrollment lives in the host
// system; the settlement engine only asks it to follow the money: a
// completed payment provisions access, a completed refund revokes it.
type Provider interface {
	// CreateEnrollment provisions course access for the buyer. It must be
	// idempotent on (buyerID, courseID); sourceRef ties the enrollment back
	// to the payment that funded it.
	CreateEnrollment(ctx context.Context, buyerID, courseID, sourceRef snowflake.ID) (snowflake.ID, error)
	// RemoveEnrollment revokes access, reporting whether an enrollment was
	// actually removed.
	RemoveEnrollment(ctx context.Context, buyerID, courseID snowflake.ID) (bool, error)
}
