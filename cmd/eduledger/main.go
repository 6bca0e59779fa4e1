package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/coursekit/eduledger/internal/affiliate"
	"github.com/coursekit/eduledger/internal/audit"
	"github.com/coursekit/eduledger/internal/clock"
	"github.com/coursekit/eduledger/internal/config"
	"github.com/coursekit/eduledger/internal/discount"
	"github.com/coursekit/eduledger/internal/dispatch"
	"github.com/coursekit/eduledger/internal/earning"
	"github.com/coursekit/eduledger/internal/enrollment"
	"github.com/coursekit/eduledger/internal/gateway"
	"github.com/coursekit/eduledger/internal/identity"
	"github.com/coursekit/eduledger/internal/migration"
	"github.com/coursekit/eduledger/internal/notification"
	"github.com/coursekit/eduledger/internal/observability"
	"github.com/coursekit/eduledger/internal/payment"
	"github.com/coursekit/eduledger/internal/refund"
	"github.com/coursekit/eduledger/internal/settlement"
	"github.com/coursekit/eduledger/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		dispatch.Module,

		// Ledgers
		payment.Module,
		refund.Module,
		earning.Module,
		affiliate.Module,

		// Collaborators
		gateway.Module,
		enrollment.Module,
		notification.Module,
		discount.Module,
		identity.Module,
		audit.Module,

		// Orchestrator
		settlement.Module,
	)
	app.Run()
}

func registerSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
