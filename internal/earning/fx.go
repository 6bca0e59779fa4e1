package earning

import (
	"github.com/coursekit/eduledger/internal/earning/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("earning.ledger",
	fx.Provide(repository.Provide),
)
