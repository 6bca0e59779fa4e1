package audit

import (
	"go.uber.org/fx"

	"github.com/coursekit/eduledger/internal/audit/repository"
	"github.com/coursekit/eduledger/internal/audit/service"
)

var Module = fx.Module("audit",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
