// Package services implements the server operations on users and tasks.
// Each exported operation runs as one unit of work: a single transaction
// that commits on success and rolls back on any error.
package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// Paging turns client supplied skip/limit into a bounded models.Page.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultPaging is used when a service is built without explicit limits.
var DefaultPaging = Paging{DefaultLimit: 100, MaxLimit: 1000}

// Page validates p. A zero limit selects DefaultLimit, a limit above
// MaxLimit is capped, and negative values are rejected.
func (pg Paging) Page(p models.Page) (models.Page, error) {
	if p.Skip < 0 {
		return models.Page{}, &common.ValidationError{Field: "skip", Reason: "must not be negative"}
	}
	if p.Limit < 0 {
		return models.Page{}, &common.ValidationError{Field: "limit", Reason: "must not be negative"}
	}
	if p.Limit == 0 {
		p.Limit = pg.DefaultLimit
	}
	if pg.MaxLimit > 0 && p.Limit > pg.MaxLimit {
		p.Limit = pg.MaxLimit
	}
	return p, nil
}

// classify passes domain errors through and marks everything else as
// common.ErrInternal, keeping the cause for logs.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrConflict),
		errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrUnauthenticated),
		errors.Is(err, common.ErrInternal):
		return err
	default:
		return fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
}
