package affiliate

import (
	"github.com/coursekit/eduledger/internal/affiliate/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("affiliate.ledger",
	fx.Provide(repository.Provide),
)
