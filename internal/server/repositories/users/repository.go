// Package users declares the credential-store repository contract.
package users

import (
	"context"

	"github.com/akoselev/eshop/internal/server/models"
)

// Repository persists user records keyed by the unique number identifier.
type Repository interface {
	// Create inserts a new user. A duplicate number yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByNumber returns the user with the given number identifier, or
	// common.ErrorNotFound.
	GetByNumber(ctx context.Context, number string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// UpdateProfile overwrites number, username and password hash.
	UpdateProfile(ctx context.Context, user *models.User) error

	// Basket/favorites mutations append or remove a single product reference
	// atomically and return the updated list.
	AddToBasket(ctx context.Context, userID, productID string) ([]string, error)
	RemoveFromBasket(ctx context.Context, userID, productID string) ([]string, error)
	AddToFavorites(ctx context.Context, userID, productID string) ([]string, error)
	RemoveFromFavorites(ctx context.Context, userID, productID string) ([]string, error)
}
