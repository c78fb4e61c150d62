package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// hashPassword hashes a plain password string
func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// checkPassword reports whether password matches hash. Any bcrypt error,
// including a malformed hash, counts as a mismatch.
func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
