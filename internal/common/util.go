package common

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b) // never fails since Go 1.24
	return b
}

// RandomHex returns n random bytes hex encoded, 2n characters long.
func RandomHex(n int) string {
	return hex.EncodeToString(RandomBytes(n))
}

// Wipe zeroes b. Passwords read from the terminal are wiped once used.
func Wipe(b []byte) {
	clear(b)
}
