package httpapi

import (
	"context"
	"net/http"

	"github.com/akoselev/eshop/internal/server/models"
	"github.com/gin-gonic/gin"
)

// Reviews is the review surface the review handler drives.
type Reviews interface {
	Create(ctx context.Context, userID string, review *models.Review) (*models.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]*models.Review, error)
	Update(ctx context.Context, userID string, review *models.Review) (*models.Review, error)
	Delete(ctx context.Context, userID, reviewID string) error
	ProductScore(ctx context.Context, productID string) (*float64, error)
}

type ReviewHandler struct {
	reviews Reviews
}

func NewReviewHandler(reviews Reviews) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type reviewRequest struct {
	Star       int    `json:"star" binding:"required"`
	Advantages string `json:"advantages"`
	Flaws      string `json:"flaws"`
	Comment    string `json:"comment"`
	Experience string `json:"experience"`
}

type reviewResponse struct {
	ID         string `json:"id"`
	ProductID  string `json:"productId"`
	UserID     string `json:"userId"`
	Star       int    `json:"star"`
	Advantages string `json:"advantages,omitempty"`
	Flaws      string `json:"flaws,omitempty"`
	Comment    string `json:"comment,omitempty"`
	Experience string `json:"experience,omitempty"`
}

func toReviewResponse(r *models.Review) reviewResponse {
	return reviewResponse{
		ID:         r.ID,
		ProductID:  r.ProductID,
		UserID:     r.UserID,
		Star:       r.Star,
		Advantages: r.Comment.Advantages,
		Flaws:      r.Comment.Flaws,
		Comment:    r.Comment.Comment,
		Experience: r.Experience,
	}
}

func (h *ReviewHandler) Create(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "star is required"})
		return
	}

	created, err := h.reviews.Create(c.Request.Context(), claims.UserID, &models.Review{
		ProductID: c.Param("productId"),
		Star:      req.Star,
		Comment: models.ReviewComment{
			Advantages: req.Advantages,
			Flaws:      req.Flaws,
			Comment:    req.Comment,
		},
		Experience: req.Experience,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(created))
}

func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	list, err := h.reviews.ListByProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]reviewResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toReviewResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// ProductScore reports the average rating; score is null for an unreviewed
// product.
func (h *ReviewHandler) ProductScore(c *gin.Context) {
	score, err := h.reviews.ProductScore(c.Request.Context(), c.Param("productId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

func (h *ReviewHandler) Update(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "star is required"})
		return
	}

	updated, err := h.reviews.Update(c.Request.Context(), claims.UserID, &models.Review{
		ID:   c.Param("id"),
		Star: req.Star,
		Comment: models.ReviewComment{
			Advantages: req.Advantages,
			Flaws:      req.Flaws,
			Comment:    req.Comment,
		},
		Experience: req.Experience,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(updated))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
