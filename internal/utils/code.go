package utils

import (
	"crypto/rand"
	"math/big"
)

const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RandomRoomCode returns an n-character join code. Ambiguous characters
// (0/O, 1/I) are excluded from the alphabet.
func RandomRoomCode(n int) string {
	if n <= 0 {
		n = 6
	}
	out := make([]byte, n)
	max := big.NewInt(int64(len(roomCodeAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = roomCodeAlphabet[0]
			continue
		}
		out[i] = roomCodeAlphabet[idx.Int64()]
	}
	return string(out)
}
