// ABOUTME: Repository interface and error taxonomy for reading storage.
// ABOUTME: Defines the contract consumed by the web, MCP, and CLI layers.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/bp/internal/models"
)

var (
	// ErrNotFound is returned when no reading has the requested ID.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidParameter is matched by every *ParameterError.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrMissingField is returned when a required column has no value.
	ErrMissingField = errors.New("missing required field")

	// ErrPersistence wraps failures from the underlying database.
	ErrPersistence = errors.New("persistence error")
)

// ParameterError reports an invalid query parameter by name.
type ParameterError struct {
	Param  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid %s parameter: %s", e.Param, e.Reason)
}

// Is reports ErrInvalidParameter as a match.
func (e *ParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// Paging limits and defaults for Query.
const (
	DefaultLimit = 50
	MaxLimit     = 1000
)

// QueryOptions selects a page of readings. Nil pointers mean "not given".
type QueryOptions struct {
	Limit     *int
	Offset    int
	SinceDays *int
}

// QueryResult is one page of readings plus the filtered total.
type QueryResult struct {
	Records []*models.Reading `json:"records"`
	Total   int               `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// Repository defines the storage interface for readings.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	Create(ctx context.Context, r *models.Reading) (*models.Reading, error)
	GetByID(ctx context.Context, id int64) (*models.Reading, error)
	Query(ctx context.Context, opts QueryOptions) (*QueryResult, error)
	Range(ctx context.Context, from, to *time.Time) ([]*models.Reading, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)

	// Lifecycle
	Close() error
}
