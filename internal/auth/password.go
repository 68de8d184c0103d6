// Package auth issues and verifies bearer tokens and hashes passwords.
package auth

import "golang.org/x/crypto/bcrypt"

// passwordCost is the bcrypt work factor for stored passwords.
const passwordCost = 10

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
