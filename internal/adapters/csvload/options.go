package csvload

// Option adjusts how a table is parsed.
type Option func(*parseOptions)

type parseOptions struct {
	dayFirst bool
}

// WithDayFirst makes ambiguous numeric dates such as 02/01/2006 read as 2 January.
func WithDayFirst(dayFirst bool) Option {
	return func(o *parseOptions) {
		o.dayFirst = dayFirst
	}
}

// Key is a stable description of the options, used to key cached loads.
func Key(opts ...Option) string {
	o := apply(opts)
	if o.dayFirst {
		return "dayfirst"
	}
	return "monthfirst"
}

// PriceOptions returns the options Load uses for the price file: day first, then opts.
func PriceOptions(opts ...Option) []Option {
	return append([]Option{WithDayFirst(true)}, opts...)
}

func apply(opts []Option) parseOptions {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
