package utils

import (
	"crypto/rand"
	"math/big"
)

// codeAlphabet covers digits and uppercase letters (36^6 combinations
// for the 6-char reservation code).
const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandomCode produces an n-char code over the reservation code alphabet.
func RandomCode(n int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
