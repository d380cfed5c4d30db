package api

import (
	"github.com/okian/brent/internal/adapters/http/charts"
	"github.com/okian/brent/internal/notebook"
	"github.com/okian/brent/pkg/logger"
)

type settings struct {
	logger   logger.Logger
	charts   charts.Options
	about    string
	notebook func() *notebook.Notebook

	renderMarkdown func(string) (string, error)
}

// Option configures NewServer.
type Option func(*settings)

// WithLogger sets the logger used by every handler.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithChartOptions sets the echarts assets host and figure size. An empty host keeps the default.
func WithChartOptions(o charts.Options) Option {
	return func(s *settings) {
		if o.AssetsHost == "" {
			o.AssetsHost = s.charts.AssetsHost
		}
		s.charts = o
	}
}

// WithAbout replaces the markdown shown in the dashboard footer.
func WithAbout(markdown string) Option {
	return func(s *settings) {
		if markdown != "" {
			s.about = markdown
		}
	}
}

// WithNotebook sets the notebook shown on /notebook.
func WithNotebook(build func() *notebook.Notebook) Option {
	return func(s *settings) {
		if build != nil {
			s.notebook = build
		}
	}
}
