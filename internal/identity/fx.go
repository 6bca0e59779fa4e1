package identity

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/coursekit/eduledger/internal/identity/domain"
)

// emptyDirectory is the default Directory wiring. User profiles live in
// the host platform; without its adapter, payout summaries simply omit
// the instructor name.
type emptyDirectory struct{}

func newDirectory() domain.Directory {
	return emptyDirectory{}
}

func (emptyDirectory) InstructorName(ctx context.Context, instructorID snowflake.ID) (string, error) {
	return "", nil
}

var Module = fx.Module("identity",
	fx.Provide(newDirectory),
)
