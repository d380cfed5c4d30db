package csvload

import "errors"

// Sentinel kinds for load failures.
var (
	ErrMissingColumn = errors.New("missing column")
	ErrParseDate     = errors.New("unparseable date")
	ErrParsePrice    = errors.New("unparseable price")
)
