package categories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akoselev/eshop/internal/common"
	"github.com/akoselev/eshop/internal/dbx"
	"github.com/akoselev/eshop/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanCategory(row interface{ Scan(dest ...any) error }) (*models.Category, error) {
	c := &models.Category{}
	var subs []byte
	if err := row.Scan(&c.ID, &c.Title, &c.OriginTitle, &c.URLImg, &subs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(subs, &c.Subcategories); err != nil {
		return nil, fmt.Errorf("decode subcategories: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	subs, err := json.Marshal(category.Subcategories)
	if err != nil {
		return nil, fmt.Errorf("encode subcategories: %w", err)
	}
	if category.Subcategories == nil {
		subs = []byte("[]")
	}

	query := `
		INSERT INTO categories (title, origin_title, url_img, subcategories)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	created := *category
	err = r.db.QueryRowContext(ctx, query,
		category.Title, category.OriginTitle, category.URLImg, subs,
	).Scan(&created.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &created, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Category, error) {
	query := `
		SELECT id, title, origin_title, url_img, subcategories
		FROM categories
		ORDER BY title
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByOriginTitle(ctx context.Context, originTitle string) (*models.Category, error) {
	query := `
		SELECT id, title, origin_title, url_img, subcategories
		FROM categories
		WHERE origin_title = $1
	`
	c, err := scanCategory(r.db.QueryRowContext(ctx, query, originTitle))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}
