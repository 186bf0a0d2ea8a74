package authinfra

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptPasswordService implements auth.PasswordService with bcrypt.
// bcrypt embeds its salt in the hash and its comparison does not leak the
// candidate password through timing.
type BcryptPasswordService struct {
	cost int
}

// NewBcryptPasswordService creates a password service with the given cost
// factor; values outside bcrypt's range fall back to the library default.
func NewBcryptPasswordService(cost int) *BcryptPasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordService{cost: cost}
}

// Hash derives a salted hash of the password.
func (s *BcryptPasswordService) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare verifies the password against a stored hash.
func (s *BcryptPasswordService) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
