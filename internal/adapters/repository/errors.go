package repository

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrLoad = errors.New("dataset load failed")
)
