// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const base36Upper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randomFrom(charset string, length int) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

// GenerateRegistrationID returns BIZ<unix millis><4 uppercase base36 chars>.
func GenerateRegistrationID(now time.Time) (string, error) {
	suffix, err := randomFrom(base36Upper, 4)
	if err != nil {
		return "", fmt.Errorf("failed to generate registration id: %w", err)
	}
	return fmt.Sprintf("BIZ%d%s", now.UnixMilli(), suffix), nil
}

// FallbackRegistrationID is the best-effort id used when a card has to be
// synthesized without the registry: BZ plus the last 8 digits of unix millis.
func FallbackRegistrationID(now time.Time) string {
	ms := fmt.Sprintf("%08d", now.UnixMilli())
	return "BZ" + ms[len(ms)-8:]
}
