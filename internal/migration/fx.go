package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	affiliatedomain "github.com/coursekit/eduledger/internal/affiliate/domain"
	auditdomain "github.com/coursekit/eduledger/internal/audit/domain"
	"github.com/coursekit/eduledger/internal/config"
	discountdomain "github.com/coursekit/eduledger/internal/discount/domain"
	earningdomain "github.com/coursekit/eduledger/internal/earning/domain"
	paymentdomain "github.com/coursekit/eduledger/internal/payment/domain"
	refunddomain "github.com/coursekit/eduledger/internal/refund/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// Non-postgres deployments (sqlite dev mode, mysql) fall back
			// to schema sync from the models.
			return conn.AutoMigrate(
				&paymentdomain.Payment{},
				&refunddomain.Refund{},
				&earningdomain.InstructorEarning{},
				&affiliatedomain.AffiliatePayout{},
				&discountdomain.Record{},
				&auditdomain.AuditLog{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
