package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// ReferenceSuffixLength is the number of base36 characters after the timestamp.
const ReferenceSuffixLength = 9

var base36Space = new(big.Int).Exp(big.NewInt(36), big.NewInt(ReferenceSuffixLength), nil)

// GenerateSecureBase36 returns ReferenceSuffixLength upper-case base36 characters
// drawn from crypto/rand.
func GenerateSecureBase36() (string, error) {
	n, err := rand.Int(rand.Reader, base36Space)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	s := strings.ToUpper(strconv.FormatInt(n.Int64(), 36))
	if pad := ReferenceSuffixLength - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s, nil
}

// GenerateReference builds a human-readable transaction reference of the form
// PREFIX-<unix millis>-<9 base36 chars>. Uniqueness is enforced by the store.
func GenerateReference(prefix string, now time.Time) (string, error) {
	suffix, err := GenerateSecureBase36()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), suffix), nil
}

var abaWeights = [9]int{3, 7, 1, 3, 7, 1, 3, 7, 1}

// GenerateRoutingNumber returns a random 9 digit ABA routing number. The first
// two digits name a Federal Reserve district (01-12) and the last is the check digit.
func GenerateRoutingNumber() (string, error) {
	district, err := rand.Int(rand.Reader, big.NewInt(12))
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	body, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	digits := fmt.Sprintf("%02d%06d", district.Int64()+1, body.Int64())

	sum := 0
	for i := 0; i < 8; i++ {
		sum += int(digits[i]-'0') * abaWeights[i]
	}
	check := (10 - sum%10) % 10
	return digits + strconv.Itoa(check), nil
}

// ValidRoutingNumber reports whether s is 9 digits with a correct ABA check digit.
func ValidRoutingNumber(s string) bool {
	if len(s) != 9 {
		return false
	}
	sum := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		sum += int(r-'0') * abaWeights[i]
	}
	return sum%10 == 0
}
