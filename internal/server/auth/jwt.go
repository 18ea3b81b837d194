// Package auth implements the credential and token primitives of the
// account subsystem: bcrypt password digests and the paired access/refresh
// JWT lifecycle.
package auth

import (
	"time"

	"github.com/akoselev/eshop/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity projection carried inside both tokens. It contains
// identity fields only; mutable profile data (basket, favorites) is always
// read live from storage and never trusted from a token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Number   string `json:"number"`
	Username string `json:"username"`
}

// TokenPair bundles a short-lived access token and a long-lived refresh
// token. Both are HS256 JWTs signed with independent secrets; only the
// refresh token is ever persisted server-side.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// GenerateToken signs the given identity as an HS256 JWT expiring after
// validityDuration. The expiry is taken from the system clock at issuance;
// no skew tolerance is applied here.
func GenerateToken(userID, number, username string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   userID,
		Number:   number,
		Username: username,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// IssueTokenPair mints an access and a refresh token carrying the same
// identity, each signed with its own secret and expiring independently.
func IssueTokenPair(userID, number, username string, accessSecret []byte, accessTTL time.Duration, refreshSecret []byte, refreshTTL time.Duration) (*TokenPair, error) {
	access, err := GenerateToken(userID, number, username, accessSecret, accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := GenerateToken(userID, number, username, refreshSecret, refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyToken checks the signature and expiry of tokenString against
// secretKey and returns the embedded claims. Every failure mode (malformed,
// wrong secret, expired) collapses to common.ErrorInvalidToken so callers
// cannot distinguish why a token was rejected.
func VerifyToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrorInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrorInvalidToken
	}

	return claims, nil
}
