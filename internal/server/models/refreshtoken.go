package models

import "time"

// RefreshToken maps one user to the single currently-live refresh token.
// At most one record exists per user; every login replaces it.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
