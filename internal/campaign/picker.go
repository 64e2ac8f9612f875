package campaign

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"
)

// Picker returns a uniform integer in [0, n).
type Picker interface {
	IntN(n int) int
}

// CryptoPicker draws from crypto/rand.
type CryptoPicker struct{}

// IntN returns a uniform integer in [0, n). It panics if n <= 0.
func (CryptoPicker) IntN(n int) int {
	if n <= 0 {
		panic("campaign: IntN with non-positive n")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return mathrand.IntN(n)
	}
	return int(v.Int64())
}

// SeededPicker is a deterministic picker for reproducible runs.
type SeededPicker struct {
	r *mathrand.Rand
}

// NewSeededPicker returns a PCG-backed picker.
func NewSeededPicker(seed1, seed2 uint64) *SeededPicker {
	return &SeededPicker{r: mathrand.New(mathrand.NewPCG(seed1, seed2))}
}

// IntN returns a uniform integer in [0, n).
func (p *SeededPicker) IntN(n int) int {
	return p.r.IntN(n)
}
