package refund

import (
	"github.com/coursekit/eduledger/internal/refund/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("refund.ledger",
	fx.Provide(repository.Provide),
)
