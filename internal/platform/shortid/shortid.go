// Package shortid generates the opaque string identifiers used for maps,
// nodes, relations, folders and deadlines on the wire.
package shortid

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const defaultLength = 9

func New() string {
	return WithLength(defaultLength)
}

func WithLength(n int) string {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform RNG is broken;
			// nothing sensible to fall back to.
			panic(err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out)
}
