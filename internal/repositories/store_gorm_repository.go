package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{db: db}
}

// GetByUserID returns the store owned by userID.
func (r *GORMStoreRepository) GetByUserID(ctx context.Context, userID string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store for user %s: %w", userID, ErrNotFound)
		}
		return nil, errors.Wrapf(err, "failed to get store for user %s", userID)
	}
	return &store, nil
}

// GetByUsername returns the store registered under username. Usernames are
// stored lowercase, so callers pass the normalized form.
func (r *GORMStoreRepository) GetByUsername(ctx context.Context, username string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store with username %s: %w", username, ErrNotFound)
		}
		return nil, errors.Wrapf(err, "failed to get store by username %s", username)
	}
	return &store, nil
}

// CreateForUser creates the store and points the owner's store_id at it in a
// single transaction. If the owner row is missing the store is rolled back.
func (r *GORMStoreRepository) CreateForUser(ctx context.Context, store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(store).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("store %s: %w", store.Username, ErrDuplicate)
			}
			return errors.Wrap(err, "failed to create store")
		}

		res := tx.Model(&models.User{}).Where("id = ?", store.UserID).Update("store_id", store.ID)
		if res.Error != nil {
			return errors.Wrapf(res.Error, "failed to link store to user %s", store.UserID)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %s: %w", store.UserID, ErrNotFound)
		}
		return nil
	})
}
