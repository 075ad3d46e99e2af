// Package pricecache layers an in-memory cache and a persistent store in
// front of a remote price source.
package pricecache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/config"
	"github.com/sonwamoh/perfomance-attribution/date"
	"github.com/sonwamoh/perfomance-attribution/logger"
	"github.com/sonwamoh/perfomance-attribution/metrics"
)

// Store persists price series. *pricedb.Store implements it.
type Store interface {
	attribution.PriceSource
	Save(ctx context.Context, points []attribution.PricePoint) error
	Latest(ctx context.Context, instrument string) (date.Date, bool, error)
}

// Source is an attribution.PriceSource reading, in order, from memory, from
// the store when its series is fresh enough, and from the remote source.
// Remote series are saved to the store.
type Source struct {
	remote  attribution.PriceSource
	store   Store
	memory  *lru.Cache[string, []attribution.PricePoint]
	maxAge  int // in days
	today   func() date.Date
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New returns a Source. m and l can be nil.
func New(cfg config.CacheConfig, remote attribution.PriceSource, store Store, m *metrics.Metrics, l *zap.Logger) (*Source, error) {
	memory, err := lru.New[string, []attribution.PricePoint](cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("invalid cache size: %w", err)
	}
	return &Source{
		remote:  remote,
		store:   store,
		memory:  memory,
		maxAge:  int(cfg.MaxAge / (24 * time.Hour)),
		today:   date.Today,
		metrics: m,
		logger:  logger.OrNop(l).Named("pricecache"),
	}, nil
}

// Prices implements attribution.PriceSource.
func (s *Source) Prices(ctx context.Context, instrument string) ([]attribution.PricePoint, error) {
	if points, ok := s.memory.Get(instrument); ok {
		s.metrics.Cache("memory", true)
		return slices.Clone(points), nil
	}
	s.metrics.Cache("memory", false)

	latest, stored, err := s.store.Latest(ctx, instrument)
	if err != nil {
		return nil, fmt.Errorf("cannot read store: %w", err)
	}
	fresh := stored && !latest.Before(s.today().Add(-s.maxAge))
	s.metrics.Cache("store", fresh)
	if fresh {
		points, err := s.store.Prices(ctx, instrument)
		if err != nil {
			return nil, err
		}
		s.memory.Add(instrument, points)
		return slices.Clone(points), nil
	}

	points, err := s.fetch(ctx, instrument)
	var unavailable *attribution.PriceUnavailableError
	switch {
	case err == nil:
		return slices.Clone(points), nil
	case stored && !errors.As(err, &unavailable):
		s.logger.Warn("remote failed, using stale series",
			zap.String("instrument", instrument), zap.Stringer("latest", latest), zap.Error(err))
		return s.store.Prices(ctx, instrument)
	default:
		return nil, err
	}
}

// Refresh fetches instrument from the remote source regardless of what is
// already cached.
func (s *Source) Refresh(ctx context.Context, instrument string) error {
	_, err := s.fetch(ctx, instrument)
	return err
}

// fetch reads the remote series, saves and memorizes it.
func (s *Source) fetch(ctx context.Context, instrument string) ([]attribution.PricePoint, error) {
	start := time.Now()
	points, err := s.remote.Prices(ctx, instrument)
	s.metrics.Fetch(err, time.Since(start))
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, points); err != nil {
		// the series is still good for this run.
		s.logger.Warn("cannot save series", zap.String("instrument", instrument), zap.Error(err))
	}
	s.memory.Add(instrument, points)
	s.logger.Debug("series fetched", zap.String("instrument", instrument), zap.Int("points", len(points)))
	return points, nil
}

var _ attribution.PriceSource = (*Source)(nil)
