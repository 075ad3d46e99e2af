// Package refresh periodically re-fetches the price series already stored.
package refresh

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sonwamoh/perfomance-attribution/logger"
)

// Lister lists the instruments to refresh. *pricedb.Store implements it.
type Lister interface {
	Instruments(ctx context.Context) ([]string, error)
}

// Refresher fetches an instrument again. *pricecache.Source implements it.
type Refresher interface {
	Refresh(ctx context.Context, instrument string) error
}

// Runner runs the refresh on a cron schedule (with seconds).
type Runner struct {
	cron      *cron.Cron
	lister    Lister
	refresher Refresher
	logger    *zap.Logger
	baseCtx   context.Context
}

// New returns a stopped runner. Jobs run with baseCtx.
func New(baseCtx context.Context, lister Lister, refresher Refresher, l *zap.Logger) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:      cron.New(cron.WithSeconds()),
		lister:    lister,
		refresher: refresher,
		logger:    logger.OrNop(l).Named("refresh"),
		baseCtx:   baseCtx,
	}
}

// Schedule registers the refresh on spec.
func (r *Runner) Schedule(spec string) error {
	_, err := r.cron.AddFunc(spec, func() { r.Run(r.baseCtx) })
	return err
}

// Run refreshes every listed instrument once. Failures are logged, and do
// not stop the others.
func (r *Runner) Run(ctx context.Context) (refreshed int) {
	ids, err := r.lister.Instruments(ctx)
	if err != nil {
		r.logger.Warn("cannot list instruments", zap.Error(err))
		return 0
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if err := r.refresher.Refresh(ctx, id); err != nil {
			r.logger.Warn("refresh failed", zap.String("instrument", id), zap.Error(err))
			continue
		}
		refreshed++
	}
	r.logger.Info("refresh done", zap.Int("refreshed", refreshed), zap.Int("instruments", len(ids)))
	return refreshed
}

func (r *Runner) Start() {
	r.logger.Info("cron started")
	r.cron.Start()
}

// Stop stops the schedule and waits for a running job to complete.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("cron stopped")
}
