package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashCredential hashes a plaintext credential using bcrypt.
func HashCredential(credential string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckCredentialHash compares a plaintext credential with a bcrypt hash.
func CheckCredentialHash(credential, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential)) == nil
}
