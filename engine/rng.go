package engine

// InitialSeed is the seed of every new game. Games are reproducible on purpose.
const InitialSeed uint64 = 42

// xorshift64 step.
func xorshift(x uint64) uint64 {
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	return x
}

// PeekRandom returns the next draw for seed without advancing anything.
func PeekRandom(seed uint64) uint64 {
	return xorshift(seed)
}

// NextRandom advances the seed one step and returns the new value.
func (s *State) NextRandom() uint64 {
	s.RngSeed = xorshift(s.RngSeed)
	return s.RngSeed
}
