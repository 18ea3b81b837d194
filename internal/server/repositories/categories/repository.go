// Package categories declares the catalog category store contract.
package categories

import (
	"context"

	"github.com/akoselev/eshop/internal/server/models"
)

type Repository interface {
	// Create inserts a category. A duplicate origin title yields
	// common.ErrorConflict.
	Create(ctx context.Context, category *models.Category) (*models.Category, error)

	// List returns every category with its subcategories.
	List(ctx context.Context) ([]*models.Category, error)

	// GetByOriginTitle returns a category by its stable origin title or
	// common.ErrorNotFound.
	GetByOriginTitle(ctx context.Context, originTitle string) (*models.Category, error)
}
