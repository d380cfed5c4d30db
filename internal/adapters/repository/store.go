// Package repository holds the session-scoped dataset cache.
package repository

import (
	"context"

	"github.com/okian/brent/internal/domain/model"
)

// Store provides read access to the loaded dataset.
type Store interface {
	// Dataset returns the dataset for this session, loading it on first use.
	// Repeated calls return the same value until the store is invalidated.
	Dataset(ctx context.Context) (*model.Dataset, error)
}
