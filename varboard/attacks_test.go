package varboard

import (
	"math/bits"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// xorshift64 gives deterministic pseudo-random occupancies so failures are
// reproducible.
type xorshift64 uint64

func (x *xorshift64) next() uint64 {
	v := uint64(*x)
	v ^= v << 13
	v ^= v >> 7
	v ^= v << 17
	*x = xorshift64(v)
	return v
}

func TestSliderAttacksMatchDragontooth(t *testing.T) {
	rng := xorshift64(0x1234_5678_9abc_def0)
	for i := 0; i < 2000; i++ {
		occ := rng.next() & rng.next() // sparse-ish occupancy
		sq := Square(rng.next() % 64)

		gotR := RookAttacksBB(sq, occ)
		wantR := dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occ)
		if gotR != wantR {
			t.Fatalf("rook attacks differ on sq %d occ %016x: got %016x want %016x", sq, occ, gotR, wantR)
		}

		gotB := BishopAttacksBB(sq, occ)
		wantB := dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occ)
		if gotB != wantB {
			t.Fatalf("bishop attacks differ on sq %d occ %016x: got %016x want %016x", sq, occ, gotB, wantB)
		}

		if QueenAttacksBB(sq, occ) != (gotR | gotB) {
			t.Fatalf("queen attacks are not the rook/bishop union on sq %d", sq)
		}
	}
}

func TestKnightAndKingTables(t *testing.T) {
	// Knight on b1 attacks a3, c3, d2.
	want := SquareBB[MakeSquare(0, 2)] | SquareBB[MakeSquare(2, 2)] | SquareBB[MakeSquare(3, 1)]
	if KnightAttacksBB(SqB1) != want {
		t.Errorf("knight attacks from b1: got %016x want %016x", KnightAttacksBB(SqB1), want)
	}

	if got := bits.OnesCount64(KingAttacksBB(SqA1)); got != 3 {
		t.Errorf("king on a1 should attack 3 squares, got %d", got)
	}
	if got := bits.OnesCount64(KingAttacksBB(SqE4)); got != 8 {
		t.Errorf("king on e4 should attack 8 squares, got %d", got)
	}
}

func TestPawnAttacks(t *testing.T) {
	e2 := MakeSquare(4, 1)
	want := SquareBB[MakeSquare(3, 2)] | SquareBB[MakeSquare(5, 2)]
	if PawnAttacksBB(White, e2) != want {
		t.Errorf("white pawn attacks from e2 wrong")
	}
	if PawnCaptureBB(White, SquareBB[e2]) != want {
		t.Errorf("aggregate pawn capture mask disagrees with the per-square table")
	}

	a7 := MakeSquare(0, 6)
	if PawnAttacksBB(Black, a7) != SquareBB[MakeSquare(1, 5)] {
		t.Errorf("black pawn attacks from a7 wrong")
	}
}

func TestLineAndBetween(t *testing.T) {
	a1 := SqA1
	h8 := MakeSquare(7, 7)
	if LineBB[a1][h8]&SquareBB[MakeSquare(3, 3)] == 0 {
		t.Errorf("d4 should be on the a1-h8 line")
	}
	if BetweenBB[a1][h8]&(SquareBB[a1]|SquareBB[h8]) != 0 {
		t.Errorf("between mask must exclude the endpoints")
	}
	if LineBB[a1][MakeSquare(1, 2)] != 0 {
		t.Errorf("a1 and b3 are not aligned")
	}
}

func TestDistanceRings(t *testing.T) {
	e4 := SqE4
	if DistanceRingBB[e4][0] != KingAttacksBB(e4) {
		t.Errorf("distance ring 1 should equal the king attack mask")
	}
	for d := 0; d < 8; d++ {
		for b := DistanceRingBB[e4][d]; b != 0; {
			s := PopLSB(&b)
			if Distance(e4, s) != d+1 {
				t.Fatalf("square %d in ring %d has distance %d", s, d, Distance(e4, s))
			}
		}
	}
}

func TestForwardAndPassedMasks(t *testing.T) {
	e2 := MakeSquare(4, 1)
	if ForwardFileBB[White][e2] != FileEBB&^(Rank1BB|Rank2BB) {
		t.Errorf("forward file of e2 wrong")
	}
	if PassedPawnMaskBB[White][e2]&SquareBB[MakeSquare(3, 4)] == 0 {
		t.Errorf("d5 should be in e2's passed-pawn mask")
	}
	if PassedPawnMaskBB[Black][e2] != (FileDBB|FileEBB|FileFBB)&Rank1BB {
		t.Errorf("black passed-pawn mask of e2 wrong")
	}
}
