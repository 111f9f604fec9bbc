package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"strings"
	"time"
)

// One-time verification codes. The stored value is never the code itself but a
// digest bound to the recipient email, so a leaked hash cannot be replayed
// against another account.

// GenerateOTP returns a random numeric code of the given length, zero-padded.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	max := big.NewInt(10)
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}

// HashOTP derives the stored digest for a code issued to an email address.
// The email is lowercased so lookups are case-insensitive.
func HashOTP(code, email string) string {
	sum := sha256.Sum256([]byte(code + ":" + strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}

// VerifyOTP recomputes the digest for the candidate code and compares it to
// the stored hash in constant time.
func VerifyOTP(code, email, storedHash string) bool {
	computed := HashOTP(code, email)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// OTPExpiry returns the expiry timestamp for a code issued now.
func OTPExpiry(ttl time.Duration) time.Time {
	return time.Now().UTC().Add(ttl)
}

// OTPExpired reports whether the code is past its expiry. A timestamp exactly
// equal to now is still accepted.
func OTPExpired(expiresAt time.Time, now time.Time) bool {
	return now.After(expiresAt)
}
