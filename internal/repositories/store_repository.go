package repositories

import (
	"context"

	"storefront/internal/models"
)

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Store, error)
	GetByUsername(ctx context.Context, username string) (*models.Store, error)
	// CreateForUser inserts the store and links it to its owner as one unit
	// of work. A unique-index violation on either the owner or the username
	// is reported as ErrDuplicate.
	CreateForUser(ctx context.Context, store *models.Store) error
}
