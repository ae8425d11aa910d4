package animation

import (
	"math/rand/v2"
	"time"
)

// Source supplies the uniform random bits consumed by the generators. Tests
// inject deterministic sources
type Source interface {
	Uint32() uint32
}

// NewSource returns a PCG backed source, a zero seed is replaced by the wall clock
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// random8 returns a uniform value in [0, 256)
func random8(src Source) uint8 {
	return uint8(src.Uint32() >> 24)
}

// randRange returns a uniform value in [lo, hi), hi must be greater than lo
func randRange(src Source, lo, hi int) int {
	return lo + int((uint64(src.Uint32())*uint64(hi-lo))>>32)
}
