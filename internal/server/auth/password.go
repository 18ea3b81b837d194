package auth

import (
	"errors"

	"github.com/akoselev/eshop/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is the fixed bcrypt work factor. bcrypt embeds a random
// salt in every digest, so equal passwords still produce distinct digests.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword produces a salted one-way digest of plaintext.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword recomputes and compares. A mismatch returns (false, nil);
// only an unreadable digest yields common.ErrorCorruptCredential.
func CheckPassword(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, common.ErrorCorruptCredential
}
