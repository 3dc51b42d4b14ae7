package lib

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const csrfTokenBytes = 32

// GenerateRandomToken returns a random CSRF token. Raw URL encoding keeps it
// free of padding so it survives cookies and headers unchanged.
func GenerateRandomToken() (string, error) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
