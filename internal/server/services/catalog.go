package services

import (
	"context"
	"database/sql"

	"github.com/akoselev/eshop/internal/server/config"
	"github.com/akoselev/eshop/internal/server/models"
	"github.com/akoselev/eshop/internal/server/repositories/repomanager"
)

// CatalogService serves the product and category catalog: listings with
// filters, search, lookups by id, and administrative CRUD.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

func (s *CatalogService) Categories(ctx context.Context) ([]*models.Category, error) {
	return s.repomanager.Categories(s.db).List(ctx)
}

// Products lists a subcategory applying the filter's price bounds, boolean
// narrowing and sort order.
func (s *CatalogService) Products(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).List(ctx, filter)
}

// Hits lists the storefront hits block across all categories.
func (s *CatalogService) Hits(ctx context.Context) ([]*models.Product, error) {
	hit := true
	return s.repomanager.Products(s.db).List(ctx, &models.ProductFilter{Hit: &hit})
}

// Discounts lists discounted products across all categories.
func (s *CatalogService) Discounts(ctx context.Context) ([]*models.Product, error) {
	discount := true
	return s.repomanager.Products(s.db).List(ctx, &models.ProductFilter{Discount: &discount})
}

func (s *CatalogService) Product(ctx context.Context, id string) (*models.Product, error) {
	return s.repomanager.Products(s.db).GetByID(ctx, id)
}

// ProductsByIDs resolves a basket or favorites list into product records.
// Stale references to removed products are dropped silently.
func (s *CatalogService) ProductsByIDs(ctx context.Context, ids []string) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).GetByIDs(ctx, ids)
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).Search(ctx, query)
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	return s.repomanager.Products(s.db).Create(ctx, product)
}

// UpdateProduct rewrites an existing product and returns the stored record.
func (s *CatalogService) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	repo := s.repomanager.Products(s.db)
	if err := repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, product.ID)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.repomanager.Products(s.db).Delete(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	return s.repomanager.Categories(s.db).Create(ctx, category)
}
