package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// Development fallback only, override via SEALER_KEY in deployed environments.
	defaultKey = "rHkzXW0bqL9iPeTJ4u1CYVgwmnSKfAJdOF2U+QL+M70="

	envKey = "SEALER_KEY"
)

func sealingKey() ([]byte, error) {
	encoded := os.Getenv(envKey)
	if encoded == "" {
		encoded = defaultKey
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// CreateBookingToken seals a stable/facility pair into an opaque token
// suitable for embedding in a public booking link.
func CreateBookingToken(stableID, facilityID string) (string, error) {
	plaintext := []byte(stableID + ":" + facilityID)

	key, err := sealingKey()
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// ParseBookingToken reverses CreateBookingToken.
func ParseBookingToken(token string) (string, string, error) {
	key, err := sealingKey()
	if err != nil {
		return "", "", err
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", err
	}

	nonceSize := aesgcm.NonceSize()
	if len(data) < nonceSize {
		return "", "", fmt.Errorf("token too short")
	}
	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	pt, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", "", err
	}

	parts := strings.SplitN(string(pt), ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid token format")
	}

	return parts[0], parts[1], nil
}
