// Package rng provides the deterministic random source shared by the
// simulation driver and agents. No wall-clock or OS entropy: a run is a
// pure function of its seed.
package rng

// Splitmix64 advances the state in place and returns the next value.
func Splitmix64(x *uint64) uint64 {
	*x += 0x9e3779b97f4a7c15
	z := *x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Rng is a small splitmix64-backed generator.
type Rng struct {
	state uint64
}

// New creates a generator from a seed.
func New(seed uint64) *Rng {
	return &Rng{state: seed}
}

// Next returns the next raw 64-bit value.
func (r *Rng) Next() uint64 {
	return Splitmix64(&r.state)
}

// Uniform01 returns a uniform float in [0, 1).
func (r *Rng) Uniform01() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// UniformInt returns a uniform integer in [lo, hi].
func (r *Rng) UniformInt(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	span := uint64(hi - lo + 1)
	return lo + int64(r.Next()%span)
}

// Coin returns a fair boolean.
func (r *Rng) Coin() bool {
	return r.Next()&1 == 1
}
