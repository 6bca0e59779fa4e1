package notification

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/coursekit/eduledger/internal/notification/domain"
)

// logDispatcher is the default Dispatcher wiring: events are logged until
// the host platform's delivery channel is plugged in. Settlement treats
// dispatch as fire-and-forget either way.
type logDispatcher struct {
	log *zap.Logger
}

func newDispatcher(log *zap.Logger) domain.Dispatcher {
	return &logDispatcher{log: log.Named("notification.dispatcher")}
}

func (d *logDispatcher) Notify(ctx context.Context, event domain.Event) error {
	d.log.Info("notification dispatched",
		zap.String("type", string(event.Type)),
		zap.String("recipient_id", event.RecipientID),
		zap.Any("payload", event.Payload),
	)
	return nil
}

var Module = fx.Module("notification",
	fx.Provide(newDispatcher),
)
