// Package cryptox holds the password hashing used by the account service.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/studydeck/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length of a freshly generated password salt.
	SaltSize = 32
	KeySize  = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// DeriveKey stretches password with argon2id.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, KeySize)
}

// HashPassword returns a new random salt and the key derived with it.
func HashPassword(password []byte) (salt, hash []byte) {
	salt = common.RandomBytes(SaltSize)
	return salt, DeriveKey(password, salt)
}

// VerifyPassword reports whether password derives to hash under salt. The
// comparison takes constant time.
func VerifyPassword(password, salt, hash []byte) bool {
	candidate := DeriveKey(password, salt)
	defer common.Wipe(candidate)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
