package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akoselev/eshop/internal/common"
	"github.com/akoselev/eshop/internal/server/config"
	"github.com/akoselev/eshop/internal/server/models"
	"github.com/akoselev/eshop/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ReviewService manages product reviews. Edits and removals are restricted
// to the review's author.
type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ReviewService {
	return &ReviewService{db: db, repomanager: m}
}

func (s *ReviewService) Create(ctx context.Context, userID string, review *models.Review) (*models.Review, error) {
	if review.Star < 1 || review.Star > 5 {
		return nil, common.ErrorInvalidArgument
	}

	// the product must exist
	if _, err := s.repomanager.Products(s.db).GetByID(ctx, review.ProductID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading product: %w", err)
	}

	review.ID = uuid.NewString()
	review.UserID = userID

	created, err := s.repomanager.Reviews(s.db).Create(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("error creating review: %w", err)
	}
	return created, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]*models.Review, error) {
	return s.repomanager.Reviews(s.db).ListByProduct(ctx, productID)
}

// ProductScore returns the average star rating of a product, or nil when
// the product has no reviews yet.
func (s *ReviewService) ProductScore(ctx context.Context, productID string) (*float64, error) {
	list, err := s.repomanager.Reviews(s.db).ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	var sum int
	for _, r := range list {
		sum += r.Star
	}
	score := float64(sum) / float64(len(list))
	return &score, nil
}

// Update rewrites a review's rating and comment. Only the author may edit;
// anyone else gets common.ErrorUnauthorized.
func (s *ReviewService) Update(ctx context.Context, userID string, review *models.Review) (*models.Review, error) {
	repo := s.repomanager.Reviews(s.db)

	existing, err := repo.GetByID(ctx, review.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading review: %w", err)
	}
	if existing.UserID != userID {
		return nil, common.ErrorUnauthorized
	}

	existing.Star = review.Star
	existing.Comment = review.Comment
	existing.Experience = review.Experience

	if err := repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("error updating review: %w", err)
	}
	return existing, nil
}

// Delete removes a review. Only the author may delete.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID string) error {
	repo := s.repomanager.Reviews(s.db)

	existing, err := repo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading review: %w", err)
	}
	if existing.UserID != userID {
		return common.ErrorUnauthorized
	}

	if err := repo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("error deleting review: %w", err)
	}
	return nil
}
