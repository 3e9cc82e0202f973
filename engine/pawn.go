package engine

import (
	"math/bits"

	vb "variant-engine/varboard"
)

// Pawn-structure scoring parameters, applied per pawn.
var (
	pawnIsolated   = S(13, 16)
	pawnBackward   = S(17, 11)
	pawnDoubled    = S(13, 40)
	pawnConnected  = S(14, 8)
	pawnPhalanx    = S(10, 8)
	pawnUnsupported = S(5, 10)
)

// King shelter parameters (middlegame only).
var (
	shelterPawn         = 18 // per shield pawn next to the king, up to three
	shelterSemiopenFile = 9  // per semi-open file among the king files
	shelterOpenFile     = 15 // per fully open file among the king files
	stormBase           = [8]int{0, 0, 0, 15, 30, 60, 90, 0}
	stormBlocked        = 6
)

// PawnEntry caches everything the evaluator wants to know about a pawn
// structure. Entries are keyed by the raw pawn bitboards and verified in
// full on probe, so a colliding structure can never leak a stale score.
type PawnEntry struct {
	whitePawns uint64
	blackPawns uint64

	score Score // white point of view

	pawnAttacks    [2]uint64
	attackSpan     [2]uint64
	passed         [2]uint64
	semiopenFiles  [2]uint8 // bit f set: no pawn of the color on file f
	weakUnopposed  [2]int
	pawnsOnSquares [2][2]int // [color][square color], 0 = light
	openFilesCount int
	asymmetry      int

	// King-shelter sub-cache; recomputed when the king moves or castling
	// rights change.
	kingSquares   [2]vb.Square
	kingCanCastle [2]bool
	kingSafety    [2]Score

	valid bool
}

// PawnAttacks returns the squares attacked by c's pawns.
func (e *PawnEntry) PawnAttacks(c vb.Color) uint64 { return e.pawnAttacks[c] }

// PawnAttacksSpan returns every square c's pawns could ever attack while
// advancing.
func (e *PawnEntry) PawnAttacksSpan(c vb.Color) uint64 { return e.attackSpan[c] }

// PassedPawns returns c's passed pawns.
func (e *PawnEntry) PassedPawns(c vb.Color) uint64 { return e.passed[c] }

// PawnsScore returns the pawn-structure score from White's point of view.
func (e *PawnEntry) PawnsScore() Score { return e.score }

// SemiopenFile reports whether c has no pawn on file f.
func (e *PawnEntry) SemiopenFile(c vb.Color, f int) bool {
	return e.semiopenFiles[c]&(1<<uint(f)) != 0
}

// SemiopenSide reports whether c has a semi-open file on the given side of
// the king file.
func (e *PawnEntry) SemiopenSide(c vb.Color, kingFile int, queenSide bool) bool {
	var sideMask uint8
	if queenSide {
		sideMask = uint8(1<<uint(kingFile)) - 1
	} else {
		sideMask = ^(uint8(1<<uint(kingFile+1)) - 1)
	}
	return e.semiopenFiles[c]&sideMask != 0
}

// WeakUnopposed counts c's isolated or backward pawns with no opposing pawn
// on their file.
func (e *PawnEntry) WeakUnopposed(c vb.Color) int { return e.weakUnopposed[c] }

// OpenFiles counts files without pawns of either color.
func (e *PawnEntry) OpenFiles() int { return e.openFilesCount }

// PawnAsymmetry counts the files where exactly one side has pawns.
func (e *PawnEntry) PawnAsymmetry() int { return e.asymmetry }

// PawnsOnSameColorSquares counts c's pawns standing on squares of the same
// color as sq.
func (e *PawnEntry) PawnsOnSameColorSquares(c vb.Color, sq vb.Square) int {
	idx := 0
	if vb.SquareBB[sq]&vb.DarkSquares != 0 {
		idx = 1
	}
	return e.pawnsOnSquares[c][idx]
}

// KingSafety returns the shelter/storm score for c's king on ksq, cached per
// entry. A side without a king shelters nothing.
func (e *PawnEntry) KingSafety(pos *vb.Position, c vb.Color, ksq vb.Square) Score {
	if ksq == vb.NoSquare {
		return S(0, 0)
	}
	if e.kingSquares[c] == ksq && e.kingCanCastle[c] == pos.CanCastle(c) {
		return e.kingSafety[c]
	}
	e.kingSquares[c] = ksq
	e.kingCanCastle[c] = pos.CanCastle(c)
	e.kingSafety[c] = e.shelter(pos, c, ksq)
	return e.kingSafety[c]
}

func (e *PawnEntry) shelter(pos *vb.Position, c vb.Color, ksq vb.Square) Score {
	them := c.Flip()
	kf := clamp(ksq.File(), 1, 6)
	mg := 0

	ourPawns := pos.Pawns(c)
	theirPawns := pos.Pawns(them)

	// Shield pawns directly around the king.
	zone := vb.KingAttacksBB(ksq) | vb.SquareBB[ksq]
	mg += shelterPawn * min(3, bits.OnesCount64(zone&ourPawns))

	for f := kf - 1; f <= kf+1; f++ {
		fileMask := vb.FileBB[f]
		switch {
		case (ourPawns|theirPawns)&fileMask == 0:
			mg -= shelterOpenFile
		case ourPawns&fileMask == 0:
			mg -= shelterSemiopenFile
		}

		// Enemy pawns storming down this file.
		for storm := theirPawns & fileMask; storm != 0; {
			s := vb.PopLSB(&storm)
			malus := stormBase[vb.RelativeRank(them, s)]
			if malus == 0 {
				continue
			}
			front := s + vb.PawnPush(them)
			if front >= 0 && front < 64 && ourPawns&vb.SquareBB[front] != 0 {
				malus -= stormBlocked
			}
			if malus > 0 {
				mg -= malus
			}
		}
	}

	return S(mg, 0)
}

const pawnHashSize = 1 << 14

// pawnTable is a per-evaluator cache of pawn structures.
type pawnTable struct {
	entries []PawnEntry
}

func newPawnTable() *pawnTable {
	return &pawnTable{entries: make([]PawnEntry, pawnHashSize)}
}

// pawnHashIndex mixes the two pawn bitboards into a table slot.
func pawnHashIndex(whitePawns, blackPawns uint64) uint64 {
	const goldenRatio = 0x9E3779B97F4A7C15
	hash := whitePawns ^ (blackPawns * goldenRatio)
	hash ^= hash >> 33
	hash *= 0xFF51AFD7ED558CCD
	hash ^= hash >> 33
	return hash & (pawnHashSize - 1)
}

// probe returns the cached entry for the position's pawn structure,
// computing it on a miss.
func (t *pawnTable) probe(pos *vb.Position) *PawnEntry {
	w, b := pos.Pawns(vb.White), pos.Pawns(vb.Black)
	e := &t.entries[pawnHashIndex(w, b)]
	if e.valid && e.whitePawns == w && e.blackPawns == b {
		return e
	}
	*e = PawnEntry{whitePawns: w, blackPawns: b, valid: true}
	e.kingSquares[vb.White] = vb.NoSquare
	e.kingSquares[vb.Black] = vb.NoSquare
	e.compute(pos)
	return e
}

func (e *PawnEntry) compute(pos *vb.Position) {
	pawns := [2]uint64{e.whitePawns, e.blackPawns}

	for c := vb.White; c <= vb.Black; c++ {
		e.pawnAttacks[c] = vb.PawnCaptureBB(c, pawns[c])
	}

	var fileHasPawn [2]uint8
	for f := 0; f < 8; f++ {
		for c := vb.White; c <= vb.Black; c++ {
			if pawns[c]&vb.FileBB[f] != 0 {
				fileHasPawn[c] |= 1 << uint(f)
			}
		}
	}
	e.semiopenFiles[vb.White] = ^fileHasPawn[vb.White]
	e.semiopenFiles[vb.Black] = ^fileHasPawn[vb.Black]
	e.openFilesCount = bits.OnesCount8(e.semiopenFiles[vb.White] & e.semiopenFiles[vb.Black])
	e.asymmetry = bits.OnesCount8(e.semiopenFiles[vb.White] ^ e.semiopenFiles[vb.Black])

	var scores [2]Score
	for c := vb.White; c <= vb.Black; c++ {
		them := c.Flip()
		ours := pawns[c]
		theirs := pawns[them]
		supported := ours & e.pawnAttacks[c]

		e.pawnsOnSquares[c][0] = bits.OnesCount64(ours &^ vb.DarkSquares)
		e.pawnsOnSquares[c][1] = bits.OnesCount64(ours & vb.DarkSquares)

		var score Score
		for b := ours; b != 0; {
			s := vb.PopLSB(&b)
			f := s.File()

			e.attackSpan[c] |= vb.PawnAttackSpanBB[c][s]

			neighbours := ours & vb.AdjacentFilesBB[f]
			opposed := theirs&vb.ForwardFileBB[c][s] != 0
			phalanx := neighbours & vb.RankBB[s.Rank()]
			isolated := neighbours == 0
			doubled := ours&vb.ForwardFileBB[c][s] != 0

			// Backward: no friendly pawn level with or behind us on an
			// adjacent file, and the stop square is controlled by an
			// enemy pawn.
			stop := s + vb.PawnPush(c)
			backward := !isolated && stop >= 0 && stop < 64 &&
				neighbours&^vb.ForwardRanksBB[c][s.Rank()] == 0 &&
				e.pawnAttacks[them]&vb.SquareBB[stop] != 0

			if vb.PassedPawnMaskBB[c][s]&theirs == 0 {
				e.passed[c] |= vb.SquareBB[s]
			}

			if (isolated || backward) && !opposed {
				e.weakUnopposed[c]++
			}

			switch {
			case phalanx != 0:
				score += pawnPhalanx
			case supported&vb.SquareBB[s] != 0:
				score += pawnConnected
			case isolated:
				score -= pawnIsolated
			case backward:
				score -= pawnBackward
			default:
				score -= pawnUnsupported
			}
			if doubled {
				score -= pawnDoubled
			}
		}
		scores[c] = score
	}

	e.score = scores[vb.White] - scores[vb.Black]
}
