package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akoselev/eshop/internal/common"
	"github.com/akoselev/eshop/internal/dbx"
	"github.com/akoselev/eshop/internal/server/auth"
	"github.com/akoselev/eshop/internal/server/config"
	"github.com/akoselev/eshop/internal/server/models"
	"github.com/akoselev/eshop/internal/server/repositories/repomanager"
)

// UserSummary is the sanitized account projection returned to clients.
// The password digest never leaves the service layer.
type UserSummary struct {
	ID        string
	Number    string
	Username  string
	Basket    []string
	Favorites []string
}

func summarize(user *models.User) *UserSummary {
	s := &UserSummary{
		ID:        user.ID,
		Number:    user.Number,
		Username:  user.Username,
		Basket:    user.Basket,
		Favorites: user.Favorites,
	}
	if s.Basket == nil {
		s.Basket = []string{}
	}
	if s.Favorites == nil {
		s.Favorites = []string{}
	}
	return s
}

// SessionService owns the account and session-token lifecycle: registration,
// login with refresh-token replacement, logout, rotation and access checks.
type SessionService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	accessSecret                 []byte
	refreshSecret                []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                           db,
		repomanager:                  m,
		accessSecret:                 []byte(cfg.AccessSecret),
		refreshSecret:                []byte(cfg.RefreshSecret),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// issueTokenPair mints the pair for the given identity and stores the refresh
// token, replacing whatever token the user held before.
func (s *SessionService) issueTokenPair(ctx context.Context, db dbx.DBTX, user *models.User) (*auth.TokenPair, error) {
	pair, err := auth.IssueTokenPair(user.ID, user.Number, user.Username,
		s.accessSecret, s.accessTokenValidityDuration,
		s.refreshSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error issuing token pair: %w", err)
	}

	repo := s.repomanager.RefreshTokens(db)
	if err := repo.Upsert(ctx, user.ID, pair.RefreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return pair, nil
}

// Register creates an account and logs it in, so the response carries a
// usable token pair. A taken number yields common.ErrorConflict.
func (s *SessionService) Register(ctx context.Context, number, username, password string) (*UserSummary, *auth.TokenPair, error) {
	digest, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("error hashing password: %w", err)
	}

	var (
		created *models.User
		pair    *auth.TokenPair
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		created, err = repo.Create(ctx, &models.User{
			Number:       number,
			Username:     username,
			PasswordHash: digest,
		})
		if err != nil {
			return err
		}

		pair, err = s.issueTokenPair(ctx, tx, created)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, nil, common.ErrorConflict
		}
		return nil, nil, fmt.Errorf("error registering user: %w", err)
	}

	return summarize(created), pair, nil
}

// Login authenticates by number and password. An unknown number yields
// common.ErrorNotFound; a wrong password common.ErrorInvalidCredential.
// A successful login replaces the user's stored refresh token, invalidating
// the session of any previous device.
func (s *SessionService) Login(ctx context.Context, number, password string) (*UserSummary, *auth.TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("error loading user: %w", err)
	}

	// a digest that cannot be read at all is a distinct failure from a
	// wrong password; common.ErrorCorruptCredential passes through
	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, common.ErrorInvalidCredential
	}

	pair, err := s.issueTokenPair(ctx, s.db, user)
	if err != nil {
		return nil, nil, err
	}

	return summarize(user), pair, nil
}

// Logout removes the refresh token from the store. Logging out a token that
// was never stored, already superseded or already removed is a no-op.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if _, err := repo.DeleteByToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// Refresh rotates a session: the presented refresh token must verify against
// the refresh secret AND still be the stored token for its user. The old
// token is consumed and a fresh pair issued in one transaction, so a token
// cannot be redeemed twice.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if _, err := auth.VerifyToken(refreshToken, s.refreshSecret); err != nil {
		return nil, common.ErrorInvalidToken
	}

	repo := s.repomanager.RefreshTokens(s.db)
	stored, err := repo.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidToken
		}
		return nil, fmt.Errorf("error loading refresh token: %w", err)
	}
	if stored.Expires.Before(time.Now()) {
		return nil, common.ErrorInvalidToken
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	var pair *auth.TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := s.repomanager.RefreshTokens(tx)
		if _, err := txRepo.DeleteByToken(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		pair, err = s.issueTokenPair(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error rotating session: %w", err)
	}

	return pair, nil
}

// Authorize gates protected operations: it verifies an access token and
// returns the identity claims. Every failure collapses to
// common.ErrorUnauthorized.
func (s *SessionService) Authorize(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := auth.VerifyToken(accessToken, s.accessSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	return claims, nil
}

// Profile returns the sanitized account record for an authorized user.
func (s *SessionService) Profile(ctx context.Context, userID string) (*UserSummary, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return summarize(user), nil
}

// UpdateProfile rewrites number, username and, when password is non-empty,
// the password digest of the account.
func (s *SessionService) UpdateProfile(ctx context.Context, userID, number, username, password string) (*UserSummary, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if number != "" {
		user.Number = number
	}
	if username != "" {
		user.Username = username
	}
	if password != "" {
		digest, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.PasswordHash = digest
	}

	if err := repo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	return summarize(user), nil
}

// Basket and favorites mutations; each returns the updated list.

func (s *SessionService) AddToBasket(ctx context.Context, userID, productID string) ([]string, error) {
	return s.mutateRefs(ctx, userID, productID, s.repomanager.Users(s.db).AddToBasket)
}

func (s *SessionService) RemoveFromBasket(ctx context.Context, userID, productID string) ([]string, error) {
	return s.mutateRefs(ctx, userID, productID, s.repomanager.Users(s.db).RemoveFromBasket)
}

func (s *SessionService) AddToFavorites(ctx context.Context, userID, productID string) ([]string, error) {
	return s.mutateRefs(ctx, userID, productID, s.repomanager.Users(s.db).AddToFavorites)
}

func (s *SessionService) RemoveFromFavorites(ctx context.Context, userID, productID string) ([]string, error) {
	return s.mutateRefs(ctx, userID, productID, s.repomanager.Users(s.db).RemoveFromFavorites)
}

func (s *SessionService) mutateRefs(ctx context.Context, userID, productID string,
	op func(ctx context.Context, userID, productID string) ([]string, error)) ([]string, error) {
	list, err := op(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating product refs: %w", err)
	}
	return list, nil
}
