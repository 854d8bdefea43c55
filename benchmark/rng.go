package benchmark

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"

	"github.com/go-faster/errors"
)

// Independent streams derived from one run seed.
const (
	CircuitStream byte = iota
	SamplerStream
)

// NewRand returns a ChaCha8 generator for the given stream of seed. The same
// (seed, stream) pair always yields the same sequence.
func NewRand(seed uint64, stream byte) *rand.Rand {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:8], seed)
	s[8] = stream
	return rand.New(rand.NewChaCha8(s))
}

// RandomSeed draws a seed from the operating system.
func RandomSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, errors.Wrap(err, "read random seed")
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
