package models

import "time"

// User is an account. Verifier is the argon2id key derived from the
// password with Salt.
type User struct {
	ID        string
	UserName  string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}
