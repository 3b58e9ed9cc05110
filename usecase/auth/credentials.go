package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/homeharmony/backend/domain"
)

// BcryptCredentials stores member passwords as bcrypt hashes.
type BcryptCredentials struct {
	Cost int
}

func (b BcryptCredentials) Hash(secret string) (string, error) {
	if len(secret) < 4 {
		return "", domain.Invalidf("password must be at least 4 characters")
	}
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptCredentials) Verify(hash, secret string) error {
	if hash == "" {
		return domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.ErrUnauthorized
		}
		return err
	}
	return nil
}
