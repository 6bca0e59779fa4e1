package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Task is a post-commit side effect. Run receives its own context; Key is
// the idempotency key handed to the side effect so a re-dispatched task
// cannot double-fire, Name only labels logs.
type Task struct {
	Key  string
	Name string
	Run  func(ctx context.Context) error
}

// Runner executes side effects after the owning transaction has committed.
// Enqueue never blocks the caller and failures are logged, never retried
// inline and never surfaced to the ledger operation that queued them.
type Runner interface {
	Enqueue(task Task) bool
}

const (
	workerCount = 4
	queueSize   = 256
	taskTimeout = 30 * time.Second
)

type Params struct {
	fx.In

	Log *zap.Logger
}

// Dispatcher is the production Runner: a small worker pool under the fx
// lifecycle.
type Dispatcher struct {
	log     *zap.Logger
	tasks   chan Task
	wg      sync.WaitGroup
	stopped atomic.Bool
}

func New(p Params, lc fx.Lifecycle) *Dispatcher {
	d := &Dispatcher{
		log:   p.Log.Named("dispatch"),
		tasks: make(chan Task, queueSize),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			for i := 0; i < workerCount; i++ {
				d.wg.Add(1)
				go d.worker()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.stopped.Store(true)
			close(d.tasks)

			done := make(chan struct{})
			go func() {
				d.wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				d.log.Warn("shutdown before side-effect queue drained")
				return ctx.Err()
			}
		},
	})

	return d
}

// Enqueue queues the task, reporting false when it was dropped. A full
// queue drops rather than blocks: ledger operations must not wait on side
// effects.
func (d *Dispatcher) Enqueue(task Task) bool {
	if task.Run == nil {
		return false
	}
	if task.Key == "" {
		task.Key = uuid.NewString()
	}
	if d.stopped.Load() {
		d.log.Warn("dispatcher stopped, dropping task",
			zap.String("task", task.Name),
			zap.String("key", task.Key),
		)
		return false
	}

	select {
	case d.tasks <- task:
		return true
	default:
		d.log.Warn("side-effect queue full, dropping task",
			zap.String("task", task.Name),
			zap.String("key", task.Key),
		)
		return false
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for task := range d.tasks {
		d.execute(task)
	}
}

func (d *Dispatcher) execute(task Task) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("side-effect task panicked",
				zap.String("task", task.Name),
				zap.String("key", task.Key),
				zap.Any("panic", r),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	if err := task.Run(ctx); err != nil {
		d.log.Warn("side-effect task failed",
			zap.String("task", task.Name),
			zap.String("key", task.Key),
			zap.Error(err),
		)
	}
}

var _ Runner = (*Dispatcher)(nil)

// Module wires the side-effect dispatcher.
var Module = fx.Module("dispatch",
	fx.Provide(New),
	fx.Provide(func(d *Dispatcher) Runner { return d }),
)
