package utils

import (
	"crypto/rand"
	"strings"

	"github.com/google/uuid"
)

// NewID generates a new string identifier
func NewID() string {
	return uuid.NewString()
}

const holdAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateHoldID returns a short uppercase ticket id for a parked sale, e.g. "K3Z9QW1PX".
func GenerateHoldID() string {
	b := make([]byte, 9)
	if _, err := rand.Read(b); err != nil {
		return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	}
	for i := range b {
		b[i] = holdAlphabet[int(b[i])%len(holdAlphabet)]
	}
	return string(b)
}
