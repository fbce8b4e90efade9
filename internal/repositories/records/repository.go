package records

import (
	"context"

	"github.com/dmitrijs2005/filesify/internal/models"
)

// Repository persists the rows of one file-backed model.
type Repository interface {
	// CreateOrUpdate upserts rec by ID. An empty ID gets a fresh uuid;
	// CreatedAt is kept on update and UpdatedAt is always refreshed.
	CreateOrUpdate(ctx context.Context, rec *models.Record) error
	GetByID(ctx context.Context, id string) (*models.Record, error)
	// List returns every row ordered by creation time.
	List(ctx context.Context) ([]*models.Record, error)
	Delete(ctx context.Context, id string) error
}
