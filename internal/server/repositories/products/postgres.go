package products

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/akoselev/eshop/internal/common"
	"github.com/akoselev/eshop/internal/dbx"
	"github.com/akoselev/eshop/internal/server/models"
)

const productColumns = "id, title, description, characteristic, category, price, old_price, hit, discount, in_stock, url_images, created_at"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanProduct(row interface{ Scan(dest ...any) error }) (*models.Product, error) {
	p := &models.Product{}
	var images []byte
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Characteristic, &p.Category,
		&p.Price, &p.OldPrice, &p.Hit, &p.Discount, &p.InStock, &images, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &p.URLImages); err != nil {
		return nil, fmt.Errorf("decode url_images: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	images, err := json.Marshal(product.URLImages)
	if err != nil {
		return nil, fmt.Errorf("encode url_images: %w", err)
	}
	if product.URLImages == nil {
		images = []byte("[]")
	}

	query := `
		INSERT INTO products (title, description, characteristic, category, price, old_price, hit, discount, in_stock, url_images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	created := *product
	err = r.db.QueryRowContext(ctx, query,
		product.Title, product.Description, product.Characteristic, product.Category,
		product.Price, product.OldPrice, product.Hit, product.Discount, product.InStock, images,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Product, error) {
	if len(ids) == 0 {
		return []*models.Product{}, nil
	}

	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id IN (%s)`, productColumns, strings.Join(ph, ", "))

	return r.queryProducts(ctx, query, args...)
}

// List builds the WHERE clause from the filter's set fields only; nil
// pointers and an empty subcategory contribute nothing, so hits and
// discounts can be listed across the whole catalog.
func (r *PostgresRepository) List(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Subcategory != "" {
		conds = append(conds, "category = "+arg(filter.Subcategory))
	}
	if filter.MinPrice != nil {
		conds = append(conds, "price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(*filter.MaxPrice))
	}
	if filter.Discount != nil {
		conds = append(conds, "discount = "+arg(*filter.Discount))
	}
	if filter.Hit != nil {
		conds = append(conds, "hit = "+arg(*filter.Hit))
	}
	if filter.InStock != nil {
		conds = append(conds, "in_stock = "+arg(*filter.InStock))
	}

	order := "created_at DESC"
	switch filter.Sort {
	case models.SortPriceAsc:
		order = "price ASC"
	case models.SortPriceDesc:
		order = "price DESC"
	case models.SortPopular, "":
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s`,
		productColumns, where, order)

	return r.queryProducts(ctx, query, args...)
}

// Update rewrites the whole product row.
func (r *PostgresRepository) Update(ctx context.Context, product *models.Product) error {
	images, err := json.Marshal(product.URLImages)
	if err != nil {
		return fmt.Errorf("encode url_images: %w", err)
	}
	if product.URLImages == nil {
		images = []byte("[]")
	}

	query := `
		UPDATE products
		SET title = $2, description = $3, characteristic = $4, category = $5,
		    price = $6, old_price = $7, hit = $8, discount = $9, in_stock = $10, url_images = $11
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		product.ID, product.Title, product.Description, product.Characteristic, product.Category,
		product.Price, product.OldPrice, product.Hit, product.Discount, product.InStock, images)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Search(ctx context.Context, query string) ([]*models.Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products WHERE title ILIKE $1 ORDER BY created_at DESC`, productColumns)
	return r.queryProducts(ctx, q, "%"+query+"%")
}

func (r *PostgresRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
