package engine

import "sync/atomic"

// EventResolver decides what landing on (or passing) a tile does.
type EventResolver interface {
	ResolveTile(s *State, tile Tile) (*State, []Event)
	ResolvePayday(s *State, playerIndex int) *State
	ResolveLawsuit(s *State, targetID string) (*State, []Event)
}

// Roulette produces spin values in [1, 10]. It must not modify the state.
type Roulette interface {
	Spin(s *State) uint32
}

// StandardRoulette derives the value from the next draw of the seed without consuming it.
type StandardRoulette struct{}

func (StandardRoulette) Spin(s *State) uint32 {
	return uint32(PeekRandom(s.RngSeed)%10) + 1
}

// FixedRoulette returns Values in order and wraps around. Out-of-range values are clamped
// into [1, 10].
type FixedRoulette struct {
	Values []uint32
	next   atomic.Uint64
}

func NewFixedRoulette(values ...uint32) *FixedRoulette {
	return &FixedRoulette{Values: values}
}

func (f *FixedRoulette) Spin(*State) uint32 {
	if len(f.Values) == 0 {
		return 1
	}
	i := f.next.Add(1) - 1
	v := f.Values[i%uint64(len(f.Values))]
	switch {
	case v < 1:
		return 1
	case v > 10:
		return 10
	}
	return v
}
