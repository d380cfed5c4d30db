package repository

import (
	"github.com/okian/brent/internal/adapters/csvload"
	"github.com/okian/brent/pkg/logger"
)

// Option applies a configuration option to the MemoStore.
type Option func(*MemoStore)

// WithLoader replaces the CSV loader, mostly for tests.
func WithLoader(load LoadFunc) Option {
	return func(s *MemoStore) {
		if load != nil {
			s.load = load
		}
	}
}

// WithParseOptions passes price parse options to the loader. They are part of the cache key.
func WithParseOptions(opts ...csvload.Option) Option {
	return func(s *MemoStore) {
		s.parse = append(s.parse, opts...)
	}
}

// WithLogger sets the logger used for load and cache events.
func WithLogger(l logger.Logger) Option {
	return func(s *MemoStore) {
		if l != nil {
			s.logger = l
		}
	}
}
