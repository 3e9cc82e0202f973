package engine

import vb "variant-engine/varboard"

// Material imbalance parameters, Kaufman-style adjustments applied on top of
// the raw material already counted by the piece-square score.
var (
	imbalanceRefPawnCount    = 5
	imbalanceKnightPerPawn   = S(3, 5)
	imbalanceBishopPerPawn   = S(2, 5)
	imbalanceBishopPair      = S(35, 55)
	imbalanceRedundantRook   = S(5, -10)
	imbalanceRookQueenOverlap = S(5, -8)
	imbalanceQueenManyMinors = S(13, -17)
)

// MaterialEntry caches per-material-signature data: the game phase, the
// imbalance correction, per-side scale factors and, for trivially drawn
// material, a specialized evaluation.
type MaterialEntry struct {
	key       uint64
	gamePhase int // [0, 128]
	imbalance Score
	factor    [2]uint8

	evalExists bool
	evalValue  int

	valid bool
}

// GamePhase returns the interpolation weight in [0, 128]; 128 is a full
// middlegame board.
func (e *MaterialEntry) GamePhase() int { return e.gamePhase }

// Imbalance returns the imbalance correction from White's point of view.
func (e *MaterialEntry) Imbalance() Score { return e.imbalance }

// SpecializedEvalExists reports whether a dedicated evaluation covers this
// material signature.
func (e *MaterialEntry) SpecializedEvalExists() bool { return e.evalExists }

// Evaluate returns the specialized evaluation from the side to move's point
// of view. Only meaningful when SpecializedEvalExists reports true.
func (e *MaterialEntry) Evaluate(pos *vb.Position) int { return e.evalValue }

// ScaleFactor returns the endgame scale for the given winning side.
func (e *MaterialEntry) ScaleFactor(pos *vb.Position, strongSide vb.Color) int {
	return int(e.factor[strongSide])
}

const materialHashSize = 1 << 13

type materialTable struct {
	entries []MaterialEntry
}

func newMaterialTable() *materialTable {
	return &materialTable{entries: make([]MaterialEntry, materialHashSize)}
}

// materialKey folds the piece counts, variant and hand contents into a
// signature.
func materialKey(pos *vb.Position) uint64 {
	const goldenRatio = 0x9E3779B97F4A7C15
	key := uint64(pos.Variant()) + 1
	for c := vb.White; c <= vb.Black; c++ {
		for pt := vb.Pawn; pt <= vb.King; pt++ {
			key = key*goldenRatio + uint64(pos.Count(c, pt))
			key = key*goldenRatio + uint64(pos.CountInHand(c, pt))
		}
	}
	key ^= key >> 29
	key *= 0xBF58476D1CE4E5B9
	key ^= key >> 32
	return key
}

// probe returns the cached entry for the position's material signature,
// computing it on a miss.
func (t *materialTable) probe(pos *vb.Position) *MaterialEntry {
	key := materialKey(pos)
	e := &t.entries[key&(materialHashSize-1)]
	if e.valid && e.key == key {
		return e
	}
	*e = MaterialEntry{key: key, valid: true}
	e.compute(pos)
	return e
}

func (e *MaterialEntry) compute(pos *vb.Position) {
	npm := pos.NonPawnMaterialBoth()
	clamped := clamp(npm, vb.EndgameLimit, vb.MidgameLimit)
	e.gamePhase = (clamped - vb.EndgameLimit) * phaseMidgame / (vb.MidgameLimit - vb.EndgameLimit)

	e.imbalance = imbalance(pos, vb.White) - imbalance(pos, vb.Black)

	for c := vb.White; c <= vb.Black; c++ {
		e.factor[c] = scaleFactorFor(pos, c)
	}

	if pos.Variant() == vb.Standard && isMaterialDraw(pos) {
		e.evalExists = true
		e.evalValue = vb.ValueDraw
	}
}

// imbalance scores one side's piece mix.
func imbalance(pos *vb.Position, c vb.Color) Score {
	them := c.Flip()
	pawns := pos.Count(c, vb.Pawn)
	knights := pos.Count(c, vb.Knight)
	bishops := pos.Count(c, vb.Bishop)
	rooks := pos.Count(c, vb.Rook)
	queens := pos.Count(c, vb.Queen)
	minors := knights + bishops

	var score Score

	// Each pawn above the reference count raises the value of knights and
	// bishops, and each pawn below it lowers them.
	pawnDelta := pawns - imbalanceRefPawnCount
	score += imbalanceKnightPerPawn.Mul(pawnDelta * knights)
	score += imbalanceBishopPerPawn.Mul(pawnDelta * bishops)

	if bishops > 1 && pos.Count(them, vb.Bishop) < 2 {
		score += imbalanceBishopPair
	}

	// Extra rooks are worth a bit less in the middlegame and a bit more in the
	// endgame for the side that owns them.
	if rooks > 1 {
		score -= imbalanceRedundantRook.Mul(rooks - 1)
	}

	// Each rook slightly overlaps with the queen's role.
	if queens >= 1 && rooks >= 2 {
		score -= imbalanceRookQueenOverlap.Mul(rooks)
	}

	if queens > 0 && minors >= 3 {
		score -= imbalanceQueenManyMinors.Mul(minors - 2)
	}

	return score
}

// scaleFactorFor computes the per-side endgame scale from the material
// signature alone. Variant boards keep the normal scale; the evaluator
// applies its own overrides on top.
func scaleFactorFor(pos *vb.Position, c vb.Color) uint8 {
	if pos.Variant() != vb.Standard {
		return scaleFactorNormal
	}
	them := c.Flip()
	npmUs := pos.NonPawnMaterial(c)
	npmThem := pos.NonPawnMaterial(them)

	if pos.Count(c, vb.Pawn) == 0 && npmUs-npmThem <= vb.BishopValueMg {
		switch {
		case npmUs < vb.RookValueMg:
			return scaleFactorDraw
		case npmThem <= vb.BishopValueMg:
			return 4
		default:
			return 14
		}
	}
	if pos.Count(c, vb.Pawn) == 1 && npmUs-npmThem <= vb.BishopValueMg {
		return scaleFactorOnePawn
	}
	return scaleFactorNormal
}

// isMaterialDraw recognizes pawnless piece configurations with no winning
// chances for either side.
func isMaterialDraw(pos *vb.Position) bool {
	if pos.ByType(vb.Pawn) != 0 || pos.ByType(vb.Queen) != 0 || pos.ByType(vb.Rook) != 0 {
		return false
	}
	wMinors := pos.Count(vb.White, vb.Knight) + pos.Count(vb.White, vb.Bishop)
	bMinors := pos.Count(vb.Black, vb.Knight) + pos.Count(vb.Black, vb.Bishop)

	// Lone minors cannot mate; two knights cannot force it either.
	switch {
	case wMinors+bMinors <= 1:
		return true
	case wMinors == 1 && bMinors == 1:
		return true
	case wMinors == 0 && bMinors == 2 && pos.Count(vb.Black, vb.Knight) == 2:
		return true
	case bMinors == 0 && wMinors == 2 && pos.Count(vb.White, vb.Knight) == 2:
		return true
	}
	return false
}
