package store

import (
	"crypto/rand"
	"fmt"
)

// NewID generates a random UUIDv4-formatted identifier. IDs are generated
// in Go rather than by the database so every store implementation behaves
// identically.
func NewID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	b[6] = (b[6] & 0x0f) | 0x40 // UUID version 4 variant bits
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
