package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/pkg/errors"
)

// SellerAuthorizer decides whether a user may act as a seller.
type SellerAuthorizer struct {
	stores repositories.StoreRepository
}

func NewSellerAuthorizer(stores repositories.StoreRepository) *SellerAuthorizer {
	return &SellerAuthorizer{stores: stores}
}

// AuthorizeSeller returns the ID of the user's approved store, or "" when the
// user has no store or it has not been approved.
func (a *SellerAuthorizer) AuthorizeSeller(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}

	store, err := a.stores.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	if store.Status != models.StoreStatusApproved {
		return "", nil
	}
	return store.ID, nil
}
