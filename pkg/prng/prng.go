// Package prng provides the string hash and seeded pseudo-random stream
// behind every generation decision.
//
// Both are fixed algorithms with 32-bit state so the same slug reproduces the
// same artwork on every platform and across releases. Changing either
// function changes every pattern ever generated.
//
// # Usage
//
//	rnd := prng.New(prng.Hash("hello-world"))
//	roll := rnd.Float64()   // [0, 1)
//	idx := rnd.Intn(3)      // 0, 1 or 2
package prng

const (
	fnvOffset = 2166136261
	fnvPrime  = 16777619

	mulberryStep = 0x6D2B79F5
)

// Hash maps s to a 32-bit seed.
//
// It is FNV-1a over the runes of s followed by a final avalanche, so slugs
// that differ in a single trailing character still land far apart.
func Hash(s string) uint32 {
	h := uint32(fnvOffset)
	for _, r := range s {
		h ^= uint32(r)
		h *= fnvPrime
	}
	h ^= h >> 16
	h *= 0x85EBCA6B
	h ^= h >> 13
	h *= 0xC2B2AE35
	h ^= h >> 16
	return h
}

// Random is a mulberry32 generator. The zero value is a valid generator
// seeded with 0. A Random is not safe for concurrent use; each generation
// call owns its own instance.
type Random struct {
	state uint32
}

// New returns a generator seeded with seed.
func New(seed uint32) *Random {
	return &Random{state: seed}
}

// Uint32 returns the next raw 32-bit output.
func (r *Random) Uint32() uint32 {
	r.state += mulberryStep
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns the next value in [0, 1).
func (r *Random) Float64() float64 {
	return float64(r.Uint32()) / 4294967296.0
}

// Intn returns floor(Float64()*n). It consumes exactly one draw.
func (r *Random) Intn(n int) int {
	return int(r.Float64() * float64(n))
}
