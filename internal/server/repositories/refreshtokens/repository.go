// Package refreshtokens declares the server-side store contract for the
// single live refresh token kept per user.
package refreshtokens

import (
	"context"
	"time"

	"github.com/akoselev/eshop/internal/server/models"
)

// Repository persists at most one refresh token per user.
type Repository interface {
	// Upsert stores token for userID with an expiry of now+validity,
	// replacing any token previously stored for that user. The replacement
	// must be atomic per user record.
	Upsert(ctx context.Context, userID string, token string, validity time.Duration) error

	// FindByToken looks up a refresh token by its exact string value.
	// Implementations return common.ErrorNotFound when the token is absent
	// (including tokens superseded by a later login).
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)

	// DeleteByToken removes a refresh token by its string value and reports
	// how many records were removed. Deleting an absent token is a no-op,
	// not an error.
	DeleteByToken(ctx context.Context, token string) (int64, error)
}
