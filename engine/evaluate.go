package engine

import (
	"math/bits"

	vb "variant-engine/varboard"
)

// attackedBy slot layout: PieceType values index their own attack unions,
// slot 0 holds the running all-pieces union and slot 7 the diagonal part of
// the queen attacks.
const (
	allPieces     = 0
	queenDiagonal = 7
)

// Evaluator owns the caches and process-wide tunables of the static
// evaluation. Handles are not safe for concurrent use; give each thread its
// own (the caches are per-handle by design).
type Evaluator struct {
	// Contempt is added to the score from White's point of view before any
	// sub-evaluation runs. The host sets it before search and leaves it
	// untouched during evaluation.
	Contempt Score

	material *materialTable
	pawns    *pawnTable
}

// NewEvaluator returns a handle with empty caches and zero contempt.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		material: newMaterialTable(),
		pawns:    newPawnTable(),
	}
}

// Evaluate returns the static value of the position from the side to move's
// point of view, tempo included. The position must not be in check.
func (ev *Evaluator) Evaluate(pos *vb.Position) int {
	return ev.value(pos, nil) + Tempo[pos.Variant()]
}

// evalState is the transient record of one evaluation call.
type evalState struct {
	pos *vb.Position
	me  *MaterialEntry
	pe  *PawnEntry

	mobilityArea [2]uint64
	mobility     [2]Score

	// attackedBy[color][slot] is the union of squares attacked by that
	// color's pieces of the slot's type; see the slot constants above.
	attackedBy [2][8]uint64

	// attackedBy2[color] are the squares attacked at least twice, possibly
	// by one pawn and one piece.
	attackedBy2 [2]uint64

	// kingRing[color] is the zone around color's king considered by king
	// safety; zero when king safety is disabled for that side.
	kingRing [2]uint64

	kingAttackersCount           [2]int
	kingAttackersWeight          [2]int
	kingAdjacentZoneAttacksCount [2]int

	tr *tracer
}

// initialize computes the mobility area, the king and pawn attack seeds and
// the king ring for one color.
func (e *evalState) initialize(us vb.Color) {
	pos := e.pos
	them := us.Flip()

	lowRanks := vb.Rank2BB | vb.Rank3BB
	if us == vb.Black {
		lowRanks = vb.Rank7BB | vb.Rank6BB
	}

	// Our pawns on the first two ranks, and those blocked by any piece.
	b := pos.Pawns(us) & (vb.Down(us, pos.Occupied()) | lowRanks)

	ksq := pos.KingSquare(us)
	if pos.IsAnti() {
		e.mobilityArea[us] = ^uint64(0)
	} else {
		var kbb uint64
		if ksq != vb.NoSquare {
			kbb = vb.SquareBB[ksq]
		}
		e.mobilityArea[us] = ^(b | kbb | e.pe.PawnAttacks(them))
	}

	var kingAttacks uint64
	if pos.IsAnti() || pos.IsExtinction() {
		for kings := pos.Kings(us); kings != 0; {
			kingAttacks |= vb.KingAttacksBB(vb.PopLSB(&kings))
		}
	} else if ksq != vb.NoSquare {
		kingAttacks = vb.KingAttacksBB(ksq)
	}
	e.attackedBy[us][vb.King] = kingAttacks
	e.attackedBy[us][vb.Pawn] = e.pe.PawnAttacks(us)

	e.attackedBy2[us] = kingAttacks & e.attackedBy[us][vb.Pawn]
	e.attackedBy[us][allPieces] = kingAttacks | e.attackedBy[us][vb.Pawn]

	// Init our king safety tables only if we are going to use them.
	kingSafetyOn := !pos.IsAnti() && !pos.IsExtinction() &&
		pos.NonPawnMaterial(them) >= vb.RookValueMg+vb.KnightValueMg
	if (kingSafetyOn || pos.IsHouse()) && ksq != vb.NoSquare {
		e.kingRing[us] = kingAttacks
		if vb.RelativeRank(us, ksq) == 0 {
			e.kingRing[us] |= vb.Up(us, kingAttacks)
		}
		e.kingAttackersCount[them] = bits.OnesCount64(kingAttacks & e.pe.PawnAttacks(them))
		e.kingAdjacentZoneAttacksCount[them] = 0
		e.kingAttackersWeight[them] = 0
	} else {
		e.kingRing[us] = 0
		e.kingAttackersCount[them] = 0
	}
}

// evaluatePieces assigns bonuses and penalties to the pieces of a given
// color and type, and accumulates the shared attack maps.
func (e *evalState) evaluatePieces(us vb.Color, pt vb.PieceType) Score {
	pos := e.pos
	them := us.Flip()
	variant := pos.Variant()

	outpostRanks := vb.Rank4BB | vb.Rank5BB | vb.Rank6BB
	if us == vb.Black {
		outpostRanks = vb.Rank5BB | vb.Rank4BB | vb.Rank3BB
	}

	var score Score
	e.attackedBy[us][pt] = 0
	if pt == vb.Queen {
		e.attackedBy[us][queenDiagonal] = 0
	}

	ksq := pos.KingSquare(us)
	pinned := pos.PinnedPieces(us)
	hordeSide := pos.IsHorde() && pos.IsHordeColor(us)

	for pieces := pos.PiecesOf(us, pt); pieces != 0; {
		s := vb.PopLSB(&pieces)

		// Attack set, including x-ray attacks for bishops and rooks.
		var b uint64
		switch pt {
		case vb.Bishop:
			b = vb.BishopAttacksBB(s, pos.Occupied()^pos.ByType(vb.Queen))
		case vb.Rook:
			b = vb.RookAttacksBB(s, pos.Occupied()^pos.ByType(vb.Queen)^pos.Rooks(us))
		default:
			b = pos.AttacksFrom(pt, us, s)
		}

		if pos.IsGrid() {
			b &^= pos.GridBB(s)
		}
		if pinned&vb.SquareBB[s] != 0 {
			b &= vb.LineBB[ksq][s]
		}

		e.attackedBy2[us] |= e.attackedBy[us][allPieces] & b
		e.attackedBy[us][pt] |= b
		e.attackedBy[us][allPieces] |= b

		if pt == vb.Queen {
			e.attackedBy[us][queenDiagonal] |= b & vb.PseudoAttacksBB(vb.Bishop, s)
		}

		if b&e.kingRing[them] != 0 {
			e.kingAttackersCount[us]++
			e.kingAttackersWeight[us] += KingAttackWeights[variant][pt]
			e.kingAdjacentZoneAttacksCount[us] += bits.OnesCount64(b & e.attackedBy[them][vb.King])
		}

		mob := bits.OnesCount64(b & e.mobilityArea[us])
		e.mobility[us] += MobilityBonus[variant][pt-2][mob]

		if pos.IsAnti() {
			continue
		}

		// Bonus for this piece as a king protector.
		if !hordeSide && ksq != vb.NoSquare {
			score += KingProtector[pt-2].Mul(vb.Distance(s, ksq))
		}

		if pt == vb.Bishop || pt == vb.Knight {
			// Bonus for outpost squares.
			bb := outpostRanks &^ e.pe.PawnAttacksSpan(them)
			if bb&vb.SquareBB[s] != 0 {
				score += Outpost[btoi(pt == vb.Bishop)][btoi(e.attackedBy[us][vb.Pawn]&vb.SquareBB[s] != 0)].Mul(2)
			} else {
				bb &= b &^ pos.ByColor(us)
				if bb != 0 {
					score += Outpost[btoi(pt == vb.Bishop)][btoi(e.attackedBy[us][vb.Pawn]&bb != 0)]
				}
			}

			// Bonus when behind a pawn.
			if vb.RelativeRank(us, s) < 4 &&
				pos.ByType(vb.Pawn)&vb.SquareBB[s+vb.PawnPush(us)] != 0 {
				score += MinorBehindPawn
			}

			if pt == vb.Bishop {
				// Penalty for pawns on the same color square as the bishop.
				score -= BishopPawns.Mul(e.pe.PawnsOnSameColorSquares(us, s))

				// Bonus for a bishop seeing both center squares through the pawns.
				if vb.MoreThanOne(center & (vb.BishopAttacksBB(s, pos.ByType(vb.Pawn)) | vb.SquareBB[s])) {
					score += LongRangedBishop
				}

				// A cornered bishop blocked by a friendly pawn diagonally in
				// front of it is a serious problem in Chess960 setups.
				if pos.Chess960() &&
					(s == vb.RelativeSquare(us, vb.SqA1) || s == vb.RelativeSquare(us, vb.SqH1)) {
					d := vb.PawnPush(us)
					if s.File() == 0 {
						d++
					} else {
						d--
					}
					if pos.PieceOn(s+d) == vb.PieceFromType(us, vb.Pawn) {
						switch {
						case !pos.Empty(s + d + vb.PawnPush(us)):
							score -= TrappedBishopA1H1.Mul(4)
						case pos.PieceOn(s+2*d) == vb.PieceFromType(us, vb.Pawn):
							score -= TrappedBishopA1H1.Mul(2)
						default:
							score -= TrappedBishopA1H1
						}
					}
				}
			}
		}

		if pt == vb.Rook {
			// Bonus for aligning with enemy pawns on the same rank/file.
			if vb.RelativeRank(us, s) >= 4 {
				score += RookOnPawn.Mul(bits.OnesCount64(pos.Pawns(them) & vb.PseudoAttacksBB(vb.Rook, s)))
			}

			// Bonus when on an open or semi-open file.
			if e.pe.SemiopenFile(us, s.File()) {
				score += RookOnFile[btoi(e.pe.SemiopenFile(them, s.File()))]
			} else if mob <= 3 && ksq != vb.NoSquare {
				// Penalty when trapped by the king, even more if the king
				// cannot castle.
				kf := ksq.File()
				if (kf < 4) == (s.File() < kf) && !e.pe.SemiopenSide(us, kf, s.File() < kf) {
					score -= (TrappedRook - S(mob*22, 0)).Mul(1 + btoi(!pos.CanCastle(us)))
				}
			}
		}

		if pt == vb.Queen {
			// Penalty if any relative pin or discovered attack against the queen.
			if blockers, _ := pos.SliderBlockers(pos.Rooks(them)|pos.Bishops(them), s); blockers != 0 {
				score -= WeakQueen
			}
		}
	}

	if e.tr != nil {
		e.tr.add(int(pt), us, score)
	}
	return score
}

// evaluateKing assigns the king danger, tropism and pawnless flank terms for
// one color.
func (e *evalState) evaluateKing(us vb.Color) Score {
	pos := e.pos
	them := us.Flip()
	variant := pos.Variant()

	ksq := pos.KingSquare(us)
	if ksq == vb.NoSquare {
		// The horde side shelters no king.
		if e.tr != nil {
			e.tr.add(int(vb.King), us, S(0, 0))
		}
		return S(0, 0)
	}

	camp := vb.AllSquares ^ vb.Rank6BB ^ vb.Rank7BB ^ vb.Rank8BB
	if us == vb.Black {
		camp = vb.AllSquares ^ vb.Rank1BB ^ vb.Rank2BB ^ vb.Rank3BB
	}

	// King shelter and enemy pawns storm.
	score := e.pe.KingSafety(pos, us, ksq)

	if e.kingAttackersCount[them] > 1-pos.Count(them, vb.Queen) {
		var weak uint64
		if pos.IsAtomic() {
			weak = (e.attackedBy[them][allPieces] | (pos.ByColor(them) ^ pos.Kings(them))) &
				(e.attackedBy[us][vb.King] | (e.attackedBy[us][vb.Queen] & ^e.attackedBy2[us]) | ^e.attackedBy[us][allPieces])
		} else {
			weak = e.attackedBy[them][allPieces] &
				^e.attackedBy2[us] &
				(e.attackedBy[us][vb.King] | e.attackedBy[us][vb.Queen] | ^e.attackedBy[us][allPieces])
		}

		var h uint64
		if pos.IsHouse() && pos.CountInHand(them, vb.Queen) > 0 {
			h = weak & ^pos.Occupied()
		}

		kingDanger := 0
		var unsafeChecks uint64

		// Analyse the safe enemy's checks which are possible on next move.
		safe := ^pos.ByColor(them)
		safe &= ^e.attackedBy[us][allPieces] | (weak & e.attackedBy2[them])
		if pos.IsAtomic() {
			safe |= e.attackedBy[us][vb.King]
		}

		// Defended by our queen or king only.
		dqko := ^e.attackedBy2[us] & (e.attackedBy[us][vb.Queen] | e.attackedBy[us][vb.King])
		dropSafe := (safe | (e.attackedBy[them][allPieces] & dqko)) & ^pos.ByColor(us)

		b1 := vb.RookAttacksBB(ksq, pos.Occupied()^pos.Queens(us))
		b2 := vb.BishopAttacksBB(ksq, pos.Occupied()^pos.Queens(us))

		// Enemy queen safe checks.
		if (b1|b2)&(h|e.attackedBy[them][vb.Queen])&safe&^e.attackedBy[us][vb.Queen] != 0 {
			kingDanger += QueenSafeCheck
		}

		if pos.IsThreeCheck() && pos.ChecksGiven(them) > 0 {
			safe = ^pos.ByColor(them)
		}

		// Enemy rooks checks.
		h = 0
		if pos.IsHouse() && pos.CountInHand(them, vb.Rook) > 0 {
			h = ^pos.Occupied()
		}
		if b1&((e.attackedBy[them][vb.Rook]&safe)|(h&dropSafe)) != 0 {
			kingDanger += RookSafeCheck
		} else {
			unsafeChecks |= b1 & (e.attackedBy[them][vb.Rook] | h)
		}

		// Enemy bishops checks.
		h = 0
		if pos.IsHouse() && pos.CountInHand(them, vb.Bishop) > 0 {
			h = ^pos.Occupied()
		}
		if b2&((e.attackedBy[them][vb.Bishop]&safe)|(h&dropSafe)) != 0 {
			kingDanger += BishopSafeCheck
		} else {
			unsafeChecks |= b2 & (e.attackedBy[them][vb.Bishop] | h)
		}

		// Enemy knights checks.
		b := vb.KnightAttacksBB(ksq)
		h = 0
		if pos.IsHouse() && pos.CountInHand(them, vb.Knight) > 0 {
			h = ^pos.Occupied()
		}
		if b&((e.attackedBy[them][vb.Knight]&safe)|(h&dropSafe)) != 0 {
			kingDanger += KnightSafeCheck
		} else {
			unsafeChecks |= b & (e.attackedBy[them][vb.Knight] | h)
		}

		// Unsafe or occupied checking squares count too, as long as the
		// square is in the attacker's mobility area.
		unsafeChecks &= e.mobilityArea[them]

		kdp := &KingDangerParams[variant]
		kingDanger += e.kingAttackersCount[them]*e.kingAttackersWeight[them] +
			kdp[0]*e.kingAdjacentZoneAttacksCount[them] +
			kdp[1]*bits.OnesCount64(e.kingRing[us]&weak) +
			kdp[2]*bits.OnesCount64(pos.PinnedPieces(us)|unsafeChecks) +
			kdp[3]*btoi(pos.Count(them, vb.Queen) == 0) +
			kdp[4]*score.Middle()/8 +
			kdp[5]

		if pos.IsHouse() {
			kingDanger += KingDangerInHand[allPieces] * pos.CountInHand(them, vb.NoPieceType)
			for pt := vb.Pawn; pt <= vb.Queen; pt++ {
				kingDanger += KingDangerInHand[pt] * pos.CountInHand(them, pt)
			}
		}

		if pos.IsAtomic() {
			kingDanger += IndirectKingAttack *
				bits.OnesCount64(vb.KingAttacksBB(ksq)&pos.ByColor(us)&e.attackedBy[them][allPieces])
			score -= S(100, 100).Mul(bits.OnesCount64(e.attackedBy[us][vb.King] & pos.Occupied()))
		}

		// Transform the kingDanger units into a Score and subtract it.
		if kingDanger > 0 {
			if pos.IsThreeCheck() {
				kingDanger = ThreeCheckKSFactors[min(pos.ChecksGiven(them), 3)] * kingDanger / 256
			}
			v := kingDanger * kingDanger / 4096
			if pos.IsAtomic() && v > vb.QueenValueMg {
				v = vb.QueenValueMg
			}
			if pos.IsHouse() {
				if us == pos.SideToMove() {
					v -= v / 10
				}
				if v > vb.QueenValueMg {
					v = vb.QueenValueMg
				}
			}
			if pos.IsThreeCheck() && v > vb.QueenValueMg {
				v = vb.QueenValueMg
			}
			score -= S(v, kingDanger/16+kdp[6]*v/256)
		}
	}

	// King tropism: first, the squares the opponent attacks in our king flank.
	kf := ksq.File()
	b := e.attackedBy[them][allPieces] & kingFlank[kf] & camp

	var shifted uint64
	if us == vb.White {
		shifted = b << 4
	} else {
		shifted = b >> 4
	}
	assert(shifted&b == 0, "king flank shift overlaps the flank")
	assert(bits.OnesCount64(shifted) == bits.OnesCount64(b), "king flank shift loses squares")

	// Second, the squares attacked twice in that flank and not defended by
	// our pawns.
	b = shifted | (b & e.attackedBy2[them] & ^e.attackedBy[us][vb.Pawn])

	score -= CloseEnemies[variant].Mul(bits.OnesCount64(b))

	// Penalty when our king is on a pawnless flank.
	if pos.ByType(vb.Pawn)&kingFlank[kf] == 0 {
		score -= PawnlessFlank
	}

	if e.tr != nil {
		e.tr.add(int(vb.King), us, score)
	}
	return score
}
