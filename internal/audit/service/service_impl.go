package service

import (
	"context"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coursekit/eduledger/internal/audit/domain"
	"github.com/coursekit/eduledger/internal/clock"
	"github.com/coursekit/eduledger/pkg/db/pagination"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	DB    *gorm.DB
	Repo  domain.Repository
	GenID *snowflake.Node
	Clock clock.Clock
}

type service struct {
	log   *zap.Logger
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &service{
		log:   p.Log.Named("audit.service"),
		db:    p.DB,
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

// Record writes an audit entry. Failures are logged and swallowed so the
// calling operation never rolls back over a missing audit row.
func (s *service) Record(ctx context.Context, actorScope string, actorID *string, action string, targetType string, targetID *string, metadata map[string]any) error {
	if action == "" {
		return domain.ErrInvalidAction
	}

	entry := &domain.AuditLog{
		ID:         s.genID.Generate(),
		ActorScope: actorScope,
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   datatypes.JSONMap(metadata),
		CreatedAt:  s.clock.Now(),
	}
	if entry.Metadata == nil {
		entry.Metadata = datatypes.JSONMap{}
	}

	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		s.log.Warn("audit record failed",
			zap.String("action", action),
			zap.String("target_type", targetType),
			zap.Error(err),
		)
	}
	return nil
}

func (s *service) List(ctx context.Context, req domain.ListAuditLogRequest) (domain.ListAuditLogResponse, error) {
	resp := domain.ListAuditLogResponse{AuditLogs: []domain.AuditLog{}}

	if req.StartAt != nil && req.EndAt != nil && req.EndAt.Before(*req.StartAt) {
		return resp, domain.ErrInvalidTimeRange
	}

	limit := req.PageSize
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	filter := domain.ListFilter{
		Action:     req.Action,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		ActorScope: req.ActorScope,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Limit:      int(limit),
	}

	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return resp, domain.ErrInvalidPageToken
		}
		id, err := strconv.ParseInt(cursor.ID, 10, 64)
		if err != nil {
			return resp, domain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return resp, domain.ErrInvalidPageToken
		}
		filter.Cursor = &domain.Cursor{ID: snowflake.ID(id), CreatedAt: createdAt}
	}

	entries, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return resp, err
	}

	pageInfo, entries := pagination.BuildCursorPageInfo(entries, limit, func(e *domain.AuditLog) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        e.ID.String(),
			CreatedAt: e.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	resp.PageInfo = pageInfo
	for _, e := range entries {
		resp.AuditLogs = append(resp.AuditLogs, *e)
	}
	return resp, nil
}
