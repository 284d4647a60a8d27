package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// linkCodeAlphabet avoids characters that read ambiguously when typed from a
// chat message (0/O, 1/I/L).
const linkCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// LinkCodeLength is the length of one-time account link codes.
const LinkCodeLength = 8

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// NewLinkCode returns a fresh one-time code for linking a web account to a
// Telegram identity.
func NewLinkCode() (string, error) {
	return RandomString(LinkCodeLength, linkCodeAlphabet)
}

// RandomString returns a cryptographically secure, unbiased string of the requested length.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}

	return string(value), nil
}
