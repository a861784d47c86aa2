package utils

import (
	"crypto/rand"
	"math/big"
)

// codeSpan is the number of distinct 6-digit codes, [100000, 999999].
const codeSpan = 900000

// NewNumericCode returns a uniformly random 6-digit numeric code as
// a string.  These codes gate email verification and password
// resets; crypto/rand keeps them unguessable and the fixed width
// keeps comparison an exact string match.
func NewNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", err
	}
	code := n.Int64() + 100000
	return big.NewInt(code).String(), nil
}
