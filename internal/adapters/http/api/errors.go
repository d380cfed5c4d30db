package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrInvalidDate = errors.New("invalid date")
	ErrRender      = errors.New("render failed")
	ErrExport      = errors.New("export failed")
)

// WrapKind annotates err with op and the sentinel kind so callers can match with errors.Is.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// NewKind builds an error of the given kind with a formatted detail.
func NewKind(op string, kind error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, kind, fmt.Sprintf(format, args...))
}
