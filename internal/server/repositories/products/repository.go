// Package products declares the catalog product store contract.
package products

import (
	"context"

	"github.com/akoselev/eshop/internal/server/models"
)

type Repository interface {
	// Create inserts a product and returns it with the generated id.
	Create(ctx context.Context, product *models.Product) (*models.Product, error)

	// GetByID returns a single product or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Product, error)

	// GetByIDs returns the products whose ids appear in the given list.
	// Unknown ids are skipped, the order of the input is not preserved.
	GetByIDs(ctx context.Context, ids []string) ([]*models.Product, error)

	// List returns products matching the filter, ordered per filter.Sort.
	// An empty filter.Subcategory means "all categories", which is how the
	// storefront-wide hits and discounts listings are expressed.
	List(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error)

	// Search matches the query against product titles, case-insensitively.
	Search(ctx context.Context, query string) ([]*models.Product, error)

	// Update rewrites every mutable field of an existing product. A missing
	// product yields common.ErrorNotFound.
	Update(ctx context.Context, product *models.Product) error

	// Delete removes a product by id. A missing product yields
	// common.ErrorNotFound.
	Delete(ctx context.Context, id string) error
}
