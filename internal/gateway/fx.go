package gateway

import (
	"github.com/coursekit/eduledger/internal/config"
	"github.com/coursekit/eduledger/internal/gateway/domain"
	"github.com/coursekit/eduledger/internal/gateway/stripe"
	"go.uber.org/fx"
)

var Module = fx.Module("gateway",
	fx.Provide(func(cfg config.Config) domain.Client {
		return stripe.New(stripe.Config{APIKey: cfg.GatewayAPIKey})
	}),
)
