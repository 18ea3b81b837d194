package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akoselev/eshop/internal/common"
	"github.com/akoselev/eshop/internal/dbx"
	"github.com/akoselev/eshop/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanReview(row interface{ Scan(dest ...any) error }) (*models.Review, error) {
	rv := &models.Review{}
	err := row.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Star,
		&rv.Comment.Advantages, &rv.Comment.Flaws, &rv.Comment.Comment,
		&rv.Experience, &rv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *PostgresRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	query := `
		INSERT INTO reviews (id, product_id, user_id, star, advantages, flaws, comment, experience)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	created := *review
	err := r.db.QueryRowContext(ctx, query,
		review.ID, review.ProductID, review.UserID, review.Star,
		review.Comment.Advantages, review.Comment.Flaws, review.Comment.Comment,
		review.Experience,
	).Scan(&created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	query := `
		SELECT id, product_id, user_id, star, advantages, flaws, comment, experience, created_at
		FROM reviews
		WHERE id = $1
	`
	rv, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rv, nil
}

func (r *PostgresRepository) ListByProduct(ctx context.Context, productID string) ([]*models.Review, error) {
	query := `
		SELECT id, product_id, user_id, star, advantages, flaws, comment, experience, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, review *models.Review) error {
	query := `
		UPDATE reviews
		SET star = $2, advantages = $3, flaws = $4, comment = $5, experience = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		review.ID, review.Star,
		review.Comment.Advantages, review.Comment.Flaws, review.Comment.Comment,
		review.Experience,
	)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
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
