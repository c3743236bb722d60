package helpers

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateTicketNumber builds a human-facing ticket label from the service
// type: first letter, base36 timestamp, 5 base36 random characters, all
// uppercase. Not globally unique - never use it as a key.
func GenerateTicketNumber(serviceType string) string {
	prefix := "X"
	if serviceType != "" {
		prefix = string(serviceType[0])
	}

	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return strings.ToUpper(prefix + ts + randomBase36(5))
}

// GenerateStudentCode builds a candidate institutional code:
// 2-digit year, first letter of the course, 4 random digits. Callers must
// re-check against existing codes and retry on collision.
func GenerateStudentCode(year int, course string) string {
	letter := "X"
	if course != "" {
		letter = strings.ToUpper(string(course[0]))
	}
	return fmt.Sprintf("%02d%s%04d", year%100, letter, randomInt(10000))
}

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36Chars[randomInt(36)]
	}
	return string(b)
}

func randomInt(max int64) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		// crypto/rand only fails when the OS source is broken
		panic(err)
	}
	return n.Int64()
}

// GenerateSecureRandom returns n cryptographically strong random bytes as a
// hex string (2n characters).
func GenerateSecureRandom(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashData returns the hex HMAC-SHA256 of data under key. Not a password
// hash - passwords go through bcrypt in the auth package.
func HashData(data, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
