package animation

// Deterministic sources shared by the generator tests

// xorshift32 is a tiny reproducible generator, the golden fire frames were
// recorded against it
type xorshift32 struct {
	state uint32
}

func (x *xorshift32) Uint32() uint32 {
	s := x.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	x.state = s
	return s
}

// fixedSource always returns the same value, 0 selects the bottom of every
// range and 0xFFFFFFFF the top
type fixedSource uint32

func (f fixedSource) Uint32() uint32 {
	return uint32(f)
}

// scriptedSource replays values in order then repeats the last one
type scriptedSource struct {
	values []uint32
	next   int
}

func (s *scriptedSource) Uint32() uint32 {
	if s.next >= len(s.values) {
		return s.values[len(s.values)-1]
	}
	v := s.values[s.next]
	s.next++
	return v
}

// fraction encodes the value that randRange maps to lo+pick when the range is
// size wide
func fraction(pick, size int) uint32 {
	return uint32(((uint64(pick) << 32) + uint64(size) - 1) / uint64(size))
}
