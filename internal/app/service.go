// Package service derives dashboard views from the session dataset and implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/brent/internal/adapters/repository"
	"github.com/okian/brent/internal/domain/model"
	"github.com/okian/brent/internal/domain/series"
	"github.com/okian/brent/pkg/logger"
	"github.com/okian/brent/pkg/metrics"
)

// Selection is the user's date range input. A zero Start or End means "use the dataset bound".
type Selection struct {
	Start time.Time
	End   time.Time
}

// EventPanels are the outputs that depend only on the event table: they do not change with the
// selected range.
type EventPanels struct {
	Events []model.Event
	Impact []series.ImpactCount
}

// View is everything one dashboard render needs.
type View struct {
	MinDate      time.Time
	MaxDate      time.Time
	Range        series.Range
	Prices       []model.PricePoint // filtered view
	Summary      series.Summary
	*EventPanels // shared by every view of the same dataset
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	store  repository.Store
	logger logger.Logger
	warmup bool

	// panels are derived once per dataset; panelsOf remembers which one.
	panels   *EventPanels
	panelsOf *model.Dataset

	started bool
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the dataset store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWarmup makes Start load the dataset eagerly.
func WithWarmup(enabled bool) Option {
	return func(s *Service) {
		s.warmup = enabled
	}
}

// New constructs a Service. A store must be provided with WithStore before use.
func New(opts ...Option) *Service {
	s := &Service{
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start marks the service ready and optionally preloads the dataset. A failed warmup is
// logged only; the error resurfaces on the first request.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "dashboard service started", logger.Bool("warmup", s.warmup))
	if s.warmup {
		if _, err := s.store.Dataset(ctx); err != nil {
			s.logger.Warn(ctx, "dataset warmup failed", logger.Error(err))
		}
	}
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// View derives the filtered price view for sel plus the range-independent event panels.
// The selection is clamped into the dataset bounds; an inverted selection yields no prices.
func (s *Service) View(ctx context.Context, sel Selection) (*View, error) {
	ds, err := s.store.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	v := &View{EventPanels: s.eventPanels(ds)}
	if lo, hi, ok := series.Bounds(ds.Prices); ok {
		v.MinDate, v.MaxDate = lo, hi
		r := series.Range{Start: lo, End: hi}
		if !sel.Start.IsZero() {
			r.Start = model.Day(sel.Start)
		}
		if !sel.End.IsZero() {
			r.End = model.Day(sel.End)
		}
		v.Range = r.Clamp(lo, hi)
	}
	v.Prices = series.Filter(ds.Prices, v.Range)
	v.Summary = series.Describe(v.Prices)

	metrics.RecordViewRender(len(v.Prices))
	s.logger.Debug(ctx, "view derived",
		logger.Date("start", v.Range.Start),
		logger.Date("end", v.Range.End),
		logger.Int("rows", len(v.Prices)),
	)
	return v, nil
}

// Events returns the range-independent event panels.
func (s *Service) Events(ctx context.Context) (*EventPanels, error) {
	ds, err := s.store.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return s.eventPanels(ds), nil
}

func (s *Service) eventPanels(ds *model.Dataset) *EventPanels {
	s.mu.RLock()
	if s.panelsOf == ds && s.panels != nil {
		p := s.panels
		s.mu.RUnlock()
		return p
	}
	s.mu.RUnlock()

	p := &EventPanels{
		Events: ds.Events,
		Impact: series.ImpactCounts(ds.Events),
	}
	metrics.RecordPanelRebuild()

	s.mu.Lock()
	s.panels, s.panelsOf = p, ds
	s.mu.Unlock()
	return p
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
		"cached":  s.panelsOf != nil,
	}
	if s.panelsOf != nil {
		stats["prices"] = len(s.panelsOf.Prices)
		stats["events"] = len(s.panelsOf.Events)
	}
	if counter, ok := s.store.(interface{ Loads() int64 }); ok {
		stats["loads"] = counter.Loads()
	}
	return stats
}
