package auth

import (
	"runtime"

	"golang.org/x/crypto/bcrypt"

	"chatspace/pkg/errors"
)

const hashCost = 12

// PasswordHasher wraps bcrypt behind a bounded semaphore so a burst of
// signups cannot occupy every scheduler thread with hashing work.
type PasswordHasher struct {
	sem chan struct{}
}

func NewPasswordHasher() *PasswordHasher {
	workers := runtime.GOMAXPROCS(0)
	if workers < 2 {
		workers = 2
	}
	return &PasswordHasher{
		sem: make(chan struct{}, workers),
	}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", errors.Internal("Failed to hash password", err)
	}
	return string(hashed), nil
}

func (h *PasswordHasher) Compare(hashedPassword, candidate string) bool {
	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(candidate)) == nil
}
