package dice

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand"
)

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed and safe for concurrent use.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Float64 returns a cryptographically secure float in [0, 1) with 53 bits of precision.
func (c *cryptoSource) Float64() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}

// seededSource is a deterministic Source for reproducible battles.
// It is not safe for concurrent use; give each battle its own instance.
type seededSource struct {
	r *mrand.Rand
}

// NewSeededSource returns a deterministic Source seeded with seed.
//
// Postcondition: Two sources built with the same seed produce the same sequence.
func NewSeededSource(seed int64) Source {
	return &seededSource{r: mrand.New(mrand.NewSource(seed))}
}

func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.r.Intn(n)
}

func (s *seededSource) Float64() float64 { return s.r.Float64() }
