// Package reviews declares the product review store contract.
package reviews

import (
	"context"

	"github.com/akoselev/eshop/internal/server/models"
)

type Repository interface {
	// Create inserts a review with a caller-supplied id.
	Create(ctx context.Context, review *models.Review) (*models.Review, error)

	// GetByID returns a review or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Review, error)

	// ListByProduct returns the reviews for a product, newest first.
	ListByProduct(ctx context.Context, productID string) ([]*models.Review, error)

	// Update rewrites the mutable fields of an existing review.
	Update(ctx context.Context, review *models.Review) error

	// Delete removes a review by id. A missing review yields
	// common.ErrorNotFound.
	Delete(ctx context.Context, id string) error
}
