package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Directory resolves display names for payout summaries. User management is
// owned by the host system; lookups here are best-effort decoration only.
type Directory interface {
	InstructorName(ctx context.Context, instructorID snowflake.ID) (string, error)
}
