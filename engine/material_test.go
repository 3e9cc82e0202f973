package engine

import (
	"testing"

	vb "variant-engine/varboard"
)

func TestMaterialEntryStartPosition(t *testing.T) {
	ev := NewEvaluator()
	pos := mustPos(t, vb.FENStartPos, vb.Standard)
	me := ev.material.probe(pos)

	if me.GamePhase() != phaseMidgame {
		t.Errorf("full board is a pure middlegame, got phase %d", me.GamePhase())
	}
	if me.Imbalance() != S(0, 0) {
		t.Errorf("symmetric material has no imbalance, got %v", me.Imbalance())
	}
	if me.SpecializedEvalExists() {
		t.Errorf("the start position has no specialized evaluation")
	}
	if me.ScaleFactor(pos, vb.White) != scaleFactorNormal {
		t.Errorf("normal scale expected")
	}
}

func TestMaterialGamePhaseEndgame(t *testing.T) {
	ev := NewEvaluator()
	pos := mustPos(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", vb.Standard)
	me := ev.material.probe(pos)
	if me.GamePhase() != 0 {
		t.Errorf("a pawn endgame is a pure endgame, got phase %d", me.GamePhase())
	}

	// Two rooks (2564) fall below the endgame limit; four rooks (5128) lie
	// between the limits.
	pos = mustPos(t, "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1", vb.Standard)
	me = ev.material.probe(pos)
	if p := me.GamePhase(); p <= 0 || p >= phaseMidgame {
		t.Errorf("four rooks sit between the phase limits, got %d", p)
	}
}

func TestMaterialSpecializedDraws(t *testing.T) {
	ev := NewEvaluator()

	draws := []string{
		"4k3/8/8/8/8/8/8/4K3 w - - 0 1",     // KK
		"4k3/8/8/8/8/8/8/2N1K3 w - - 0 1",   // KNK
		"4k3/8/8/8/8/8/8/1NN1K3 w - - 0 1",  // KNNK
		"2b1k3/8/8/8/8/8/8/2B1K3 w - - 0 1", // KBKB
	}
	for _, fen := range draws {
		pos := mustPos(t, fen, vb.Standard)
		me := ev.material.probe(pos)
		if !me.SpecializedEvalExists() {
			t.Errorf("%s: expected a specialized draw evaluation", fen)
			continue
		}
		if me.Evaluate(pos) != vb.ValueDraw {
			t.Errorf("%s: specialized evaluation must be a draw", fen)
		}
		if got := ev.Evaluate(pos); got != vb.ValueDraw+Tempo[vb.Standard] {
			t.Errorf("%s: full evaluation should be tempo only, got %d", fen, got)
		}
	}

	notDraws := []string{
		"4k3/8/8/8/8/8/8/3RK3 w - - 0 1",   // KRK
		"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",  // pawns on the board
		"4k3/8/8/8/8/8/8/1BN1K3 w - - 0 1", // KBNK is a win
	}
	for _, fen := range notDraws {
		pos := mustPos(t, fen, vb.Standard)
		if ev.material.probe(pos).SpecializedEvalExists() {
			t.Errorf("%s: no specialized draw here", fen)
		}
	}

	// Variant boards never take the insufficient-material shortcut.
	atomicKK := mustPos(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1", vb.Atomic)
	if ev.material.probe(atomicKK).SpecializedEvalExists() {
		t.Errorf("atomic bare kings are not the standard draw set")
	}
}

func TestMaterialImbalanceBishopPair(t *testing.T) {
	ev := NewEvaluator()
	pos := mustPos(t, "4k3/8/8/8/8/8/8/2BB1K2 w - - 0 1", vb.Standard)
	me := ev.material.probe(pos)

	if me.Imbalance().Middle() <= 0 || me.Imbalance().End() <= 0 {
		t.Errorf("the bishop pair should dominate the imbalance, got %v", me.Imbalance())
	}
}

func TestMaterialImbalanceAntisymmetry(t *testing.T) {
	ev := NewEvaluator()

	a := mustPos(t, "1n2k3/pppppppp/8/8/8/8/PPPPPPPP/1B2K3 w - - 0 1", vb.Standard)
	b := mustPos(t, "1b2k3/pppppppp/8/8/8/8/PPPPPPPP/1N2K3 w - - 0 1", vb.Standard)

	if ev.material.probe(a).Imbalance() != -ev.material.probe(b).Imbalance() {
		t.Errorf("swapping the colors must negate the imbalance")
	}
}

func TestMaterialScaleFactorPawnless(t *testing.T) {
	ev := NewEvaluator()

	// A lone extra minor with no pawns cannot win.
	pos := mustPos(t, "4k3/8/8/8/8/8/8/1N2K3 w - - 0 1", vb.Standard)
	me := ev.material.probe(pos)
	if me.ScaleFactor(pos, vb.White) != scaleFactorDraw {
		t.Errorf("pawnless minor-only advantage scales to a draw")
	}

	// One pawn with level material uses the one-pawn sentinel.
	pos = mustPos(t, "5k2/6p1/8/8/1b6/8/6P1/4KB2 w - - 0 1", vb.Standard)
	me = ev.material.probe(pos)
	if me.ScaleFactor(pos, vb.White) != scaleFactorOnePawn {
		t.Errorf("single-pawn strong side should report the one-pawn sentinel")
	}
}
