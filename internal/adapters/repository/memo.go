package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/brent/internal/adapters/csvload"
	"github.com/okian/brent/internal/domain/model"
	"github.com/okian/brent/pkg/logger"
	"github.com/okian/brent/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// LoadFunc reads a dataset from disk.
type LoadFunc func(ctx context.Context, paths csvload.Paths, opts ...csvload.Option) (*model.Dataset, error)

// MemoStore memoizes one dataset per process, keyed by the file paths and parse options.
// Concurrent first requests share a single load; failed loads are not cached.
type MemoStore struct {
	paths  csvload.Paths
	parse  []csvload.Option
	key    string
	load   LoadFunc
	logger logger.Logger

	group singleflight.Group
	mu    sync.RWMutex
	ds    *model.Dataset
	loads atomic.Int64
}

// NewMemoStore creates a store for the given files. Nothing is read until Dataset is called.
func NewMemoStore(paths csvload.Paths, opts ...Option) *MemoStore {
	s := &MemoStore{
		paths:  paths,
		load:   csvload.Load,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.key = fmt.Sprintf("%s|%s|%s", paths.Prices, paths.Events, csvload.Key(csvload.PriceOptions(s.parse...)...))
	return s
}

// Key identifies the cached load: both paths and the price parse options.
func (s *MemoStore) Key() string {
	return s.key
}

// Dataset returns the cached dataset, loading it if needed.
func (s *MemoStore) Dataset(ctx context.Context) (*model.Dataset, error) {
	s.mu.RLock()
	ds := s.ds
	s.mu.RUnlock()
	if ds != nil {
		metrics.RecordCacheHit()
		return ds, nil
	}

	v, err, _ := s.group.Do(s.key, func() (any, error) {
		s.mu.RLock()
		cached := s.ds
		s.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}
		metrics.RecordCacheMiss()
		return s.fill(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Dataset), nil
}

func (s *MemoStore) fill(ctx context.Context) (*model.Dataset, error) {
	start := time.Now()
	ds, err := s.load(ctx, s.paths, s.parse...)
	elapsed := time.Since(start)
	s.loads.Add(1)
	if err != nil {
		metrics.RecordDatasetLoad(metrics.ResultError, float64(elapsed.Milliseconds()))
		s.logger.Error(ctx, "dataset load failed", logger.String("key", s.key), logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	metrics.RecordDatasetLoad(metrics.ResultSuccess, float64(elapsed.Milliseconds()))
	metrics.UpdateDatasetRows("prices", len(ds.Prices))
	metrics.UpdateDatasetRows("events", len(ds.Events))
	s.logger.Info(ctx, "dataset loaded",
		logger.String("prices_path", s.paths.Prices),
		logger.String("events_path", s.paths.Events),
		logger.Int("prices", len(ds.Prices)),
		logger.Int("events", len(ds.Events)),
		logger.Duration("elapsed", elapsed),
	)

	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()
	return ds, nil
}

// Invalidate drops the cached dataset so the next call reloads from disk.
func (s *MemoStore) Invalidate() {
	s.mu.Lock()
	s.ds = nil
	s.mu.Unlock()
}

// Loads reports how many times the files were read.
func (s *MemoStore) Loads() int64 {
	return s.loads.Load()
}
