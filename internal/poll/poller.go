package poll

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const DefaultInterval = 10 * time.Second

// FetchFunc produces the current value of whatever is being watched.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// ApplyFunc receives each successfully fetched value.
type ApplyFunc[T any] func(value T)

// Poller re-fetches a value on a fixed interval and hands each result to an
// apply callback. Ticks never overlap: a slow fetch delays the next one
// rather than running beside it.
type Poller[T any] struct {
	interval time.Duration
	fetch    FetchFunc[T]
	apply    ApplyFunc[T]
	logger   *zap.Logger
}

func NewPoller[T any](interval time.Duration, fetch FetchFunc[T], apply ApplyFunc[T], logger ...*zap.Logger) *Poller[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	l := zap.L().Named("poll")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("poll")
	}
	return &Poller[T]{
		interval: interval,
		fetch:    fetch,
		apply:    apply,
		logger:   l,
	}
}

// Run fetches once immediately, then on every tick until ctx is canceled.
// Fetch errors are logged and the previous value stands until the next
// successful fetch. Nothing is applied after cancellation.
func (p *Poller[T]) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller[T]) tick(ctx context.Context) {
	value, err := p.fetch(ctx)
	if err != nil {
		p.logger.Warn("poll fetch failed", zap.Error(err))
		return
	}
	// The fetch may have raced cancellation; a canceled poller must stay silent.
	if ctx.Err() != nil {
		return
	}
	p.apply(value)
}
