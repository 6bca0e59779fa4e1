package discount

import (
	"go.uber.org/fx"

	"github.com/coursekit/eduledger/internal/discount/repository"
)

var Module = fx.Module("discount",
	fx.Provide(repository.Provide),
)
