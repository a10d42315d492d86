package bloglist

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a salted password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// PasswordMatches reports whether password hashes to hash. A malformed
// hash is a mismatch.
func PasswordMatches(password, hash string) bool {
	return ComparePasswordAndHash(password, hash) == nil
}

// RandomPasswordHash hashes a random password, used to compare against
// when the login identifier is unknown so both paths cost the same.
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}

var (
	dummyHashOnce  sync.Once
	dummyHashValue string
)

// dummyHash is computed once per process
func dummyHash() string {
	dummyHashOnce.Do(func() {
		dummyHashValue = RandomPasswordHash()
	})
	return dummyHashValue
}

// BcryptHasher implements PasswordAuthenticator
type BcryptHasher struct{}

var _ PasswordAuthenticator = BcryptHasher{}

func (BcryptHasher) HashPassword(password string) (string, error) {
	return HashPassword(password)
}

func (BcryptHasher) ComparePasswordAndHash(password, hash string) error {
	return ComparePasswordAndHash(password, hash)
}
