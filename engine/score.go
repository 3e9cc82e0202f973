package engine

import "fmt"

// Score packs a middlegame and an endgame value, each a signed 16-bit
// centipawn-like quantity, into a single int32. Addition and subtraction of
// packed scores operate component-wise; multiplying by a small integer
// scales both halves. The +0x8000 bias on the middlegame read compensates
// for borrow from a negative endgame half.
type Score int32

// S builds a packed score from its middlegame and endgame halves.
func S(mg, eg int) Score {
	return Score(uint32(int16(mg))<<16) + Score(int16(eg))
}

// Middle returns the middlegame half.
func (s Score) Middle() int {
	return int(int16(uint32(s+0x8000) >> 16))
}

// End returns the endgame half.
func (s Score) End() int {
	return int(int16(s))
}

// Mul scales both halves by n.
func (s Score) Mul(n int) Score { return s * Score(n) }

func (s Score) String() string {
	return fmt.Sprintf("Score(%d, %d)", s.Middle(), s.End())
}
