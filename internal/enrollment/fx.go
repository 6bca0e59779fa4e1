package enrollment

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/coursekit/eduledger/internal/enrollment/domain"
)

// logProvider is the default Provider wiring. Enrollment lives in the host
// platform; until its adapter is plugged in, provisioning requests are
// acknowledged and logged so settlement keeps its partial-success contract.
type logProvider struct {
	log   *zap.Logger
	genID *snowflake.Node
}

func newProvider(log *zap.Logger, genID *snowflake.Node) domain.Provider {
	return &logProvider{log: log.Named("enrollment.provider"), genID: genID}
}

func (p *logProvider) CreateEnrollment(ctx context.Context, buyerID, courseID, sourceRef snowflake.ID) (snowflake.ID, error) {
	id := p.genID.Generate()
	p.log.Info("enrollment provisioning requested",
		zap.Int64("buyer_id", int64(buyerID)),
		zap.Int64("course_id", int64(courseID)),
		zap.Int64("source_ref", int64(sourceRef)),
		zap.Int64("enrollment_id", int64(id)),
	)
	return id, nil
}

func (p *logProvider) RemoveEnrollment(ctx context.Context, buyerID, courseID snowflake.ID) (bool, error) {
	p.log.Info("enrollment removal requested",
		zap.Int64("buyer_id", int64(buyerID)),
		zap.Int64("course_id", int64(courseID)),
	)
	return true, nil
}

var Module = fx.Module("enrollment",
	fx.Provide(newProvider),
)
