package settlement

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/coursekit/eduledger/internal/settlement/domain"
	"github.com/coursekit/eduledger/internal/settlement/service"
)

var Module = fx.Module("settlement",
	fx.Provide(service.New),
	// The orchestrator has no transport of its own; the host API layer
	// wraps domain.Service. Invoking it here keeps the engine constructed
	// and migrated even when no routes are registered.
	fx.Invoke(func(svc domain.Service, log *zap.Logger) {
		_ = svc
		log.Named("settlement").Info("settlement engine ready")
	}),
)
