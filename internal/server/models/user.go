// Package models contains the persisted domain records shared by
// repositories and services.
package models

import "time"

// User is the credential-store record. Number is the unique external-facing
// identifier (phone-like); Basket and Favorites hold ordered product id
// references. PasswordHash never leaves the service layer.
type User struct {
	ID           string
	Number       string
	Username     string
	PasswordHash string
	Basket       []string
	Favorites    []string
	CreatedAt    time.Time
}
