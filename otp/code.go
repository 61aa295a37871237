package otp

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// GenerateCode returns a uniformly random six-digit decimal code in
// [100000, 999999]. The leading digit is never zero, so the code survives
// any integer round-trip intact.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
