package engine

import (
	"testing"

	vb "variant-engine/varboard"
)

func TestPawnEntryStartPosition(t *testing.T) {
	ev := NewEvaluator()
	pos := mustPos(t, vb.FENStartPos, vb.Standard)
	pe := ev.pawns.probe(pos)

	if pe.PawnsScore() != S(0, 0) {
		t.Errorf("symmetric structure must score zero, got %v", pe.PawnsScore())
	}
	if pe.PassedPawns(vb.White) != 0 || pe.PassedPawns(vb.Black) != 0 {
		t.Errorf("no passers in the start position")
	}
	if pe.OpenFiles() != 0 {
		t.Errorf("no open files in the start position, got %d", pe.OpenFiles())
	}
	if pe.PawnAsymmetry() != 0 {
		t.Errorf("start position is symmetric, got asymmetry %d", pe.PawnAsymmetry())
	}
	if pe.WeakUnopposed(vb.White) != 0 || pe.WeakUnopposed(vb.Black) != 0 {
		t.Errorf("no weak unopposed pawns in the start position")
	}

	wantAttacks := vb.PawnCaptureBB(vb.White, pos.Pawns(vb.White))
	if pe.PawnAttacks(vb.White) != wantAttacks {
		t.Errorf("white pawn attacks wrong")
	}
	if pe.PawnAttacks(vb.White)&vb.Rank3BB == 0 {
		t.Errorf("white rank-2 pawns attack rank 3")
	}

	w := pe.KingSafety(pos, vb.White, pos.KingSquare(vb.White))
	b := pe.KingSafety(pos, vb.Black, pos.KingSquare(vb.Black))
	if w != b {
		t.Errorf("symmetric shelters must match: %v vs %v", w, b)
	}
}

func TestPawnEntryLonePasser(t *testing.T) {
	ev := NewEvaluator()
	pos := mustPos(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", vb.Standard)
	pe := ev.pawns.probe(pos)

	e2 := vb.MakeSquare(4, 1)
	if pe.PassedPawns(vb.White)&vb.SquareBB[e2] == 0 {
		t.Errorf("the e2 pawn is passed")
	}
	if pe.PassedPawns(vb.Black) != 0 {
		t.Errorf("black has no pawns at all")
	}
	if pe.WeakUnopposed(vb.White) != 1 {
		t.Errorf("the lone pawn is isolated and unopposed, got %d", pe.WeakUnopposed(vb.White))
	}
	if !pe.SemiopenFile(vb.White, 0) || pe.SemiopenFile(vb.White, 4) {
		t.Errorf("semi-open file classification wrong")
	}
	if pe.OpenFiles() != 7 {
		t.Errorf("seven files carry no pawns, got %d", pe.OpenFiles())
	}
	if pe.PawnAsymmetry() != 1 {
		t.Errorf("only the e-file is asymmetric, got %d", pe.PawnAsymmetry())
	}

	// e2 is a light square carrying our only pawn.
	if pe.PawnsOnSameColorSquares(vb.White, e2) != 1 {
		t.Errorf("one white pawn on light squares")
	}
	if pe.PawnsOnSameColorSquares(vb.White, vb.SqA1) != 0 {
		t.Errorf("no white pawns on dark squares")
	}
}

func TestPawnEntryStructureTerms(t *testing.T) {
	ev := NewEvaluator()

	// White: doubled isolated e-pawns. Black: healthy connected pawns.
	pos := mustPos(t, "4k3/5ppp/8/8/8/4P3/4P3/4K3 w - - 0 1", vb.Standard)
	pe := ev.pawns.probe(pos)

	if pe.PawnsScore().Middle() >= 0 {
		t.Errorf("doubled isolated pawns against a healthy chain must score negative, got %v", pe.PawnsScore())
	}

	// Backward pawn: d2 has no support from behind and its stop square d3
	// is controlled by the e4 pawn.
	pos = mustPos(t, "4k3/8/8/8/4p3/4P3/3P4/4K3 w - - 0 1", vb.Standard)
	pe = ev.pawns.probe(pos)
	if pe.WeakUnopposed(vb.White) != 1 {
		t.Errorf("the d2 pawn is backward and unopposed, got %d", pe.WeakUnopposed(vb.White))
	}
}

func TestPawnEntryAttackSpan(t *testing.T) {
	ev := NewEvaluator()
	pos := mustPos(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", vb.Standard)
	pe := ev.pawns.probe(pos)

	span := pe.PawnAttacksSpan(vb.White)
	if span != vb.PawnAttackSpanBB[vb.White][vb.MakeSquare(4, 1)] {
		t.Errorf("attack span of a single pawn should equal its table mask")
	}
	if span&vb.SquareBB[vb.MakeSquare(3, 4)] == 0 {
		t.Errorf("d5 lies in the e2 pawn's attack span")
	}
}

func TestPawnCacheKeyedByStructure(t *testing.T) {
	ev := NewEvaluator()

	// Same pawn structure, different piece placement: one entry serves both.
	a := mustPos(t, "4k3/pppppppp/8/8/8/8/PPPPPPPP/4K3 w - - 0 1", vb.Standard)
	b := mustPos(t, "1k6/pppppppp/8/8/8/8/PPPPPPPP/1K2R3 w - - 0 1", vb.Standard)

	pa := ev.pawns.probe(a)
	pb := ev.pawns.probe(b)
	if pa != pb {
		t.Errorf("identical pawn structures must share a cache entry")
	}
	if pa.PawnsScore() != pb.PawnsScore() {
		t.Errorf("shared entry must keep its score")
	}
}
