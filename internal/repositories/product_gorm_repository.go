package repositories

import (
	"context"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return errors.Wrap(err, "failed to create product")
	}
	return nil
}

// ListByStore returns every product of a store, oldest first.
func (r *GORMProductRepository) ListByStore(ctx context.Context, storeID string) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Order("created_at asc").Find(&products).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to list products for store %s", storeID)
	}
	return products, nil
}
