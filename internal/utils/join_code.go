package utils

import (
	"crypto/rand"
	"fmt"

	"github.com/teamhub/teamhub-api/internal/constants"
)

// GenerateJoinCode generates a random fixed-length join code drawn from
// uppercase letters and digits. Codes are compared case-insensitively by
// normalizing input to uppercase before lookup.
func GenerateJoinCode() (string, error) {
	bytes := make([]byte, constants.JoinCodeLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	alphabet := constants.JoinCodeAlphabet
	code := make([]byte, constants.JoinCodeLength)
	for i, b := range bytes {
		code[i] = alphabet[int(b)%len(alphabet)]
	}

	return string(code), nil
}
