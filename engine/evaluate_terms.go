package engine

import (
	"math/bits"

	vb "variant-engine/varboard"
)

// evaluateThreats assigns bonuses according to the types of the attacking
// and the attacked pieces. Anti and Losers use an inverted dialect where
// capture availability is a liability; Atomic contributes nothing here.
func (e *evalState) evaluateThreats(us vb.Color) Score {
	pos := e.pos

	var score Score

	switch {
	case pos.IsAnti():
		score = e.forcedCaptureThreats(us, &AttacksAnti, ThreatsAnti, true)
	case pos.IsAtomic():
		// No threat evaluation: captures explode the attacker too.
	case pos.IsLosers():
		score = e.forcedCaptureThreats(us, &AttacksLosers, ThreatsLosers, false)
	default:
		score = e.standardThreats(us)
	}

	if e.tr != nil {
		e.tr.add(termThreat, us, score)
	}
	return score
}

// forcedCaptureThreats is the shared Anti/Losers dialect: penalties for
// having captures available, bonuses for forcing the opponent into them.
func (e *evalState) forcedCaptureThreats(us vb.Color, attacks *[2][2][vb.PieceTypeNB]Score, threats [2]Score, pieceCountTerm bool) Score {
	pos := e.pos
	them := us.Flip()

	rank2 := vb.Rank2BB
	if us == vb.Black {
		rank2 = vb.Rank7BB
	}

	var score Score
	weCapture := e.attackedBy[us][allPieces]&pos.ByColor(them) != 0
	theyCapture := e.attackedBy[them][allPieces]&pos.ByColor(us) != 0

	// Penalties for possible captures.
	if weCapture {
		// Penalty if we only attack unprotected pieces.
		theyDefended := e.attackedBy[us][allPieces]&pos.ByColor(them)&e.attackedBy[them][allPieces] != 0
		for pt := vb.Pawn; pt <= vb.King; pt++ {
			if e.attackedBy[us][pt]&pos.ByColor(them)&^e.attackedBy2[us] != 0 {
				score -= attacks[btoi(theyCapture)][btoi(theyDefended)][pt]
			} else if e.attackedBy[us][pt]&pos.ByColor(them) != 0 {
				score -= attacks[btoi(theyCapture)][btoi(theyDefended)][vb.NoPieceType]
			}
		}
		// If both colors attack pieces, increase the penalty with piece count.
		if theyCapture && pieceCountTerm {
			score -= PieceCountAnti.Mul(pos.CountAll(us))
		}
	}

	// Bonus if we threaten to force captures (ignoring possible discoveries).
	if !weCapture || theyCapture {
		b := pos.Pawns(us)
		pawnPushes := vb.Up(us, b|(vb.Up(us, b&rank2)&^pos.Occupied())) &^ pos.Occupied()
		pieceMoves := (e.attackedBy[us][vb.Knight] | e.attackedBy[us][vb.Bishop] |
			e.attackedBy[us][vb.Rook] | e.attackedBy[us][vb.Queen] | e.attackedBy[us][vb.King]) &^ pos.Occupied()
		allThreats := pawnPushes | pieceMoves
		unprotectedPawnPushes := pawnPushes &^ e.attackedBy[us][allPieces]
		unprotectedPieceMoves := pieceMoves &^ e.attackedBy2[us]
		safeThreats := unprotectedPawnPushes | unprotectedPieceMoves

		score += threats[0].Mul(bits.OnesCount64(e.attackedBy[them][allPieces] & allThreats))
		score += threats[1].Mul(bits.OnesCount64(e.attackedBy[them][allPieces] & safeThreats))
	}

	return score
}

func (e *evalState) standardThreats(us vb.Color) Score {
	pos := e.pos
	them := us.Flip()

	rank3 := vb.Rank3BB
	if us == vb.Black {
		rank3 = vb.Rank6BB
	}

	var score Score

	// Non-pawn enemies attacked by a pawn.
	weak := (pos.ByColor(them) ^ pos.Pawns(them)) & e.attackedBy[us][vb.Pawn]

	if weak != 0 {
		b := pos.Pawns(us) & (^e.attackedBy[them][allPieces] | e.attackedBy[us][allPieces])
		safeThreats := (vb.UpRight(us, b) | vb.UpLeft(us, b)) & weak

		score += ThreatBySafePawn.Mul(bits.OnesCount64(safeThreats))

		if weak^safeThreats != 0 {
			score += ThreatByHangingPawn
		}
	}

	// Squares strongly protected by the opponent: attacked by a pawn, or
	// attacked twice while we don't defend them twice.
	stronglyProtected := e.attackedBy[them][vb.Pawn] |
		(e.attackedBy2[them] & ^e.attackedBy2[us])

	// Non-pawn enemies, strongly protected.
	defended := (pos.ByColor(them) ^ pos.Pawns(them)) & stronglyProtected

	// Enemies not strongly protected and under our attack.
	weak = pos.ByColor(them) & ^stronglyProtected & e.attackedBy[us][allPieces]

	if defended|weak != 0 {
		for b := (defended | weak) & (e.attackedBy[us][vb.Knight] | e.attackedBy[us][vb.Bishop]); b != 0; {
			s := vb.PopLSB(&b)
			pt := pos.PieceOn(s).Type()
			score += ThreatByMinor[pt]
			if pt != vb.Pawn {
				score += ThreatByRank.Mul(vb.RelativeRank(them, s))
			}
		}

		for b := (pos.Queens(them) | weak) & e.attackedBy[us][vb.Rook]; b != 0; {
			s := vb.PopLSB(&b)
			pt := pos.PieceOn(s).Type()
			score += ThreatByRook[pt]
			if pt != vb.Pawn {
				score += ThreatByRank.Mul(vb.RelativeRank(them, s))
			}
		}

		score += Hanging.Mul(bits.OnesCount64(weak & ^e.attackedBy[them][allPieces]))

		if b := weak & e.attackedBy[us][vb.King]; b != 0 {
			score += ThreatByKing[btoi(vb.MoreThanOne(b))]
		}
	}

	// Bonus for opponent unopposed weak pawns.
	if pos.RooksAndQueens(us) != 0 {
		score += WeakUnopposedPawn.Mul(e.pe.WeakUnopposed(them))
	}

	// Squares where our pawns can push on the next move.
	b := vb.Up(us, pos.Pawns(us)) &^ pos.Occupied()
	b |= vb.Up(us, b&rank3) &^ pos.Occupied()

	// Keep only the squares which are not completely unsafe.
	b &= ^e.attackedBy[them][vb.Pawn] &
		(e.attackedBy[us][allPieces] | ^e.attackedBy[them][allPieces])

	// Bonus for each new pawn threat from those squares.
	b = (vb.UpLeft(us, b) | vb.UpRight(us, b)) & pos.ByColor(them) & ^e.attackedBy[us][vb.Pawn]
	score += ThreatByPawnPush.Mul(bits.OnesCount64(b))

	if pos.IsThreeCheck() {
		score += ChecksGivenBonus[min(pos.ChecksGiven(us), 3)]
	}

	if pos.IsHorde() && pos.IsHordeColor(them) {
		// Bonus according to how close we are to breaking through the pawn wall.
		if pos.RooksAndQueens(us) != 0 {
			wall := 8
			if (e.attackedBy[us][vb.Queen]|e.attackedBy[us][vb.Rook])&vb.Rank1BB != 0 {
				wall = 0
			} else {
				for f := 0; f < 8; f++ {
					pawns := bits.OnesCount64(pos.Pawns(them) & vb.FileBB[f])
					pawnsl := 0
					if f > 0 {
						pawnsl = min(bits.OnesCount64(pos.Pawns(them)&vb.FileBB[f-1]), pawns)
					}
					pawnsr := 0
					if f < 7 {
						pawnsr = min(bits.OnesCount64(pos.Pawns(them)&vb.FileBB[f+1]), pawns)
					}
					wall = min(wall, pawnsl+pawnsr)
				}
			}
			div := 4
			if pos.Queens(us) != 0 {
				div = 2
			}
			score += ThreatByHangingPawn.Mul(pos.Count(them, vb.Pawn) / (1 + wall) / div)
		}
	}

	// Bonus for safe slider attack threats on the opponent queen.
	safeThreats := ^pos.ByColor(us) & ^e.attackedBy2[them] & e.attackedBy2[us]
	b = (e.attackedBy[us][vb.Bishop] & e.attackedBy[them][queenDiagonal]) |
		(e.attackedBy[us][vb.Rook] & e.attackedBy[them][vb.Queen] & ^e.attackedBy[them][queenDiagonal])
	score += ThreatByAttackOnQueen.Mul(bits.OnesCount64(b & safeThreats))

	return score
}

// evaluatePassedPawns evaluates the passed pawns of the given color. Racing
// Kings replaces the walk with a king-progress bonus; King-of-the-hill adds
// center-proximity bonuses.
func (e *evalState) evaluatePassedPawns(us vb.Color) Score {
	pos := e.pos
	them := us.Flip()
	variant := pos.Variant()

	var score Score

	if pos.IsRace() {
		ksq := pos.KingSquare(us)
		s := vb.RelativeRank(vb.Black, ksq)
		kr := ksq.Rank()
		for r := kr + 1; r <= 7; r++ {
			if vb.RankBB[r]&vb.DistanceRingBB[ksq][r-1-kr]&^e.attackedBy[them][allPieces]&^pos.ByColor(us) == 0 {
				s++
			}
		}
		score = KingRaceBonus[min(s, 7)]
		if e.tr != nil {
			e.tr.add(termPassed, us, score)
		}
		return score
	}

	if pos.IsKoth() {
		ksq := pos.KingSquare(us)
		centerSquares := [4]vb.Square{vb.SqE4, vb.SqD4, vb.SqD5, vb.SqE5}
		for _, c := range centerSquares {
			dist := vb.Distance(ksq, c) +
				bits.OnesCount64(pos.AttackersTo(c, pos.Occupied())&pos.ByColor(them)) +
				bits.OnesCount64(pos.ByColor(us)&vb.SquareBB[c])
			assert(dist > 0, "koth distance must be positive")
			score += KothDistanceBonus[min(dist-1, 5)]
		}
	}

	for b := e.pe.PassedPawns(us); b != 0; {
		s := vb.PopLSB(&b)

		assert(pos.Pawns(them)&vb.ForwardFileBB[us][s+vb.PawnPush(us)] == 0,
			"passed pawn has an enemy pawn ahead on its file")

		hindered := vb.ForwardFileBB[us][s] & (e.attackedBy[them][allPieces] | pos.ByColor(them))
		score -= HinderPassedPawn.Mul(bits.OnesCount64(hindered))

		// Horde pawns can sit on their own back rank; treat them like
		// second-rank pawns.
		r := max(vb.RelativeRank(us, s)-1, 0)
		rr := r * (r - 1)

		mbonus := Passed[variant][0][r]
		ebonus := Passed[variant][1][r]

		if rr != 0 {
			blockSq := s + vb.PawnPush(us)

			switch {
			case pos.IsHorde():
				// Assume a horde king distance of approximately 5.
				if pos.IsHordeColor(us) {
					ebonus += vb.Distance(pos.KingSquare(them), blockSq)*5*rr - 10*rr
				} else {
					ebonus += 25*rr - vb.Distance(pos.KingSquare(us), blockSq)*2*rr
				}
			case pos.IsAnti():
				// No kings to run with.
			case pos.IsAtomic():
				ebonus += vb.Distance(pos.KingSquare(them), blockSq) * 5 * rr
			default:
				// Adjust bonus based on the kings' proximity.
				ebonus += vb.Distance(pos.KingSquare(them), blockSq)*5*rr -
					vb.Distance(pos.KingSquare(us), blockSq)*2*rr

				// If blockSq is not the queening square, consider a second push.
				if vb.RelativeRank(us, blockSq) != 7 {
					ebonus -= vb.Distance(pos.KingSquare(us), blockSq+vb.PawnPush(us)) * rr
				}
			}

			if pos.Empty(blockSq) {
				// If there is a rook or queen attacking/defending the pawn
				// from behind, consider the whole path to the queening
				// square; otherwise only the attacked or occupied squares.
				squaresToQueen := vb.ForwardFileBB[us][s]
				defendedSquares := squaresToQueen
				unsafeSquares := squaresToQueen

				behind := vb.ForwardFileBB[them][s] &
					(pos.ByType(vb.Rook) | pos.ByType(vb.Queen)) &
					vb.RookAttacksBB(s, pos.Occupied())

				if pos.ByColor(us)&behind == 0 {
					defendedSquares &= e.attackedBy[us][allPieces]
				}
				if pos.ByColor(them)&behind == 0 {
					unsafeSquares &= e.attackedBy[them][allPieces] | pos.ByColor(them)
				}

				// No enemy attacks at all earn a big bonus; an unattacked
				// block square a smaller one.
				k := 0
				switch {
				case unsafeSquares == 0:
					k = 18
				case unsafeSquares&vb.SquareBB[blockSq] == 0:
					k = 8
				}

				if defendedSquares == squaresToQueen {
					k += 6
				} else if defendedSquares&vb.SquareBB[blockSq] != 0 {
					k += 4
				}

				mbonus += k * rr
				ebonus += k * rr
			} else if pos.ByColor(us)&vb.SquareBB[blockSq] != 0 {
				mbonus += rr + r*2
				ebonus += rr + r*2
			}
		}

		// Scale down bonus for candidate passers which need more than one
		// pawn push to become passed or have a pawn in front of them.
		if !pos.PawnPassed(us, s+vb.PawnPush(us)) ||
			pos.ByType(vb.Pawn)&vb.ForwardFileBB[us][s] != 0 {
			mbonus /= 2
			ebonus /= 2
		}

		score += S(mbonus, ebonus) + PassedFile[s.File()]
	}

	if e.tr != nil {
		e.tr.add(termPassed, us, score)
	}
	return score
}

// evaluateSpace computes a bonus based on the number of safe squares
// available for minor pieces on the central four files on ranks 2 to 4.
// Safe squares up to three squares behind a friendly pawn count twice.
func (e *evalState) evaluateSpace(us vb.Color) Score {
	pos := e.pos
	them := us.Flip()

	spaceMask := centerFiles & (vb.Rank2BB | vb.Rank3BB | vb.Rank4BB)
	if us == vb.Black {
		spaceMask = centerFiles & (vb.Rank7BB | vb.Rank6BB | vb.Rank5BB)
	}

	// A square is unsafe if attacked by an enemy pawn, or if it is
	// undefended and attacked by an enemy piece.
	safe := spaceMask &
		^pos.Pawns(us) &
		^e.attackedBy[them][vb.Pawn] &
		(e.attackedBy[us][allPieces] | ^e.attackedBy[them][allPieces])

	// All squares at most three squares behind some friendly pawn.
	behind := pos.Pawns(us)
	behind |= vb.Down(us, behind)
	behind |= vb.Down(us, vb.Down(us, behind))

	// The space mask is fully on our half of the board, so safe and
	// (behind & safe) can be counted with a single popcount.
	var shifted uint64
	if us == vb.White {
		assert(safe>>32 == 0, "white space zone escaped the lower half")
		shifted = safe << 32
	} else {
		assert(safe<<32 == 0, "black space zone escaped the upper half")
		shifted = safe >> 32
	}
	bonus := bits.OnesCount64(shifted | (behind & safe))
	weight := pos.CountAll(us) - 2*e.pe.OpenFiles()

	if pos.IsKoth() {
		return S(bonus*weight*weight/22, 0) +
			KothSafeCenter.Mul(bits.OnesCount64(safe&behind&center))
	}
	return S(bonus*weight*weight/16, 0)
}

// evaluateInitiative computes the second-order endgame correction based on
// the known attacking/defending status of the players. The correction never
// flips the endgame sign.
func (e *evalState) evaluateInitiative(eg int) Score {
	pos := e.pos

	kingDistance := 0
	wk, bk := pos.KingSquare(vb.White), pos.KingSquare(vb.Black)
	if wk != vb.NoSquare && bk != vb.NoSquare {
		kingDistance = vb.FileDistance(wk, bk) - vb.RankDistance(wk, bk)
	}
	bothFlanks := pos.ByType(vb.Pawn)&queenSide != 0 && pos.ByType(vb.Pawn)&kingSide != 0

	initiative := 8*(e.pe.PawnAsymmetry()+kingDistance-17) +
		12*bits.OnesCount64(pos.ByType(vb.Pawn)) +
		16*btoi(bothFlanks)

	sign := btoi(eg > 0) - btoi(eg < 0)
	v := sign * max(initiative, -abs(eg))

	if e.tr != nil {
		e.tr.addBoth(termInitiative, S(0, v), S(0, 0))
	}
	return S(0, v)
}

// evaluateScaleFactor computes the scale factor for the winning side.
func (e *evalState) evaluateScaleFactor(eg int) int {
	pos := e.pos

	strongSide := vb.Black
	if eg > 0 {
		strongSide = vb.White
	}
	sf := e.me.ScaleFactor(pos, strongSide)

	// Check for drawish endgame families unless the material table already
	// reported something unusual.
	if !pos.IsAtomic() && (sf == scaleFactorNormal || sf == scaleFactorOnePawn) {
		if pos.OppositeBishops() {
			// Opposite-colored bishops with no other pieces is close to a
			// draw, even more so with a single pawn.
			if pos.NonPawnMaterial(vb.White) == vb.BishopValueMg &&
				pos.NonPawnMaterial(vb.Black) == vb.BishopValueMg {
				if vb.MoreThanOne(pos.ByType(vb.Pawn)) {
					return 31
				}
				return 9
			}
			// With more pieces on the board, still a bit drawish.
			return 46
		}
		// Endings where the weaker side can put the king in front of the
		// opponent's pawns are drawish.
		weakKing := pos.KingSquare(strongSide.Flip())
		if abs(eg) <= vb.BishopValueEg &&
			pos.Count(strongSide, vb.Pawn) <= 2 &&
			weakKing != vb.NoSquare &&
			!pos.PawnPassed(strongSide.Flip(), weakKing) {
			return 37 + 7*pos.Count(strongSide, vb.Pawn)
		}
	}

	if pos.IsHorde() {
		hordeSide := vb.White
		if pos.IsHordeColor(vb.Black) {
			hordeSide = vb.Black
		}
		if pos.NonPawnMaterial(hordeSide) >= vb.QueenValueMg && !pos.IsHordeColor(strongSide) {
			sf = 10
		}
	}

	return sf
}

// value computes the static evaluation from the side to move's point of
// view, without tempo. tr may be nil for the allocation-free path.
func (ev *Evaluator) value(pos *vb.Position, tr *tracer) int {
	assert(pos.Checkers() == 0, "evaluated position is in check")

	if pos.IsVariantEnd() {
		return pos.VariantResult()
	}

	me := ev.material.probe(pos)

	// A specialized evaluation for the material configuration overrides
	// everything else.
	if me.SpecializedEvalExists() {
		return me.Evaluate(pos)
	}

	// Seed the score with the incrementally maintained material and
	// piece-square terms, the imbalance and the contempt.
	psqMg, psqEg := pos.PSQScore()
	score := S(psqMg, psqEg) + me.Imbalance() + ev.Contempt

	pe := ev.pawns.probe(pos)
	score += pe.PawnsScore()

	// Early exit if the blended score is already overwhelming.
	v := (score.Middle() + score.End()) / 2
	if pos.Variant() == vb.Standard && abs(v) > LazyThreshold {
		if pos.SideToMove() == vb.White {
			return v
		}
		return -v
	}

	e := evalState{pos: pos, me: me, pe: pe, tr: tr}
	e.initialize(vb.White)
	e.initialize(vb.Black)

	score += e.evaluatePieces(vb.White, vb.Knight) - e.evaluatePieces(vb.Black, vb.Knight)
	score += e.evaluatePieces(vb.White, vb.Bishop) - e.evaluatePieces(vb.Black, vb.Bishop)
	score += e.evaluatePieces(vb.White, vb.Rook) - e.evaluatePieces(vb.Black, vb.Rook)
	score += e.evaluatePieces(vb.White, vb.Queen) - e.evaluatePieces(vb.Black, vb.Queen)

	score += e.mobility[vb.White] - e.mobility[vb.Black]

	if !pos.IsAnti() && !pos.IsExtinction() && !pos.IsRace() {
		score += e.evaluateKing(vb.White) - e.evaluateKing(vb.Black)
	}

	score += e.evaluateThreats(vb.White) - e.evaluateThreats(vb.Black)

	score += e.evaluatePassedPawns(vb.White) - e.evaluatePassedPawns(vb.Black)

	var spaceW, spaceB Score
	spaceEvaluated := !pos.IsHorde() && pos.NonPawnMaterialBoth() >= SpaceThreshold[pos.Variant()]
	if spaceEvaluated {
		spaceW = e.evaluateSpace(vb.White)
		spaceB = e.evaluateSpace(vb.Black)
		score += spaceW - spaceB
	}

	if !pos.IsAnti() && !pos.IsHorde() {
		score += e.evaluateInitiative(score.End())
	}

	// Interpolate between the middlegame and the (scaled) endgame score.
	sf := e.evaluateScaleFactor(score.End())
	phase := me.GamePhase()
	v = (score.Middle()*phase +
		score.End()*(phaseMidgame-phase)*sf/scaleFactorNormal) / phaseMidgame

	if tr != nil {
		tr.addBoth(termMaterial, S(psqMg, psqEg), S(0, 0))
		tr.addBoth(termImbalance, me.Imbalance(), S(0, 0))
		tr.addBoth(int(vb.Pawn), pe.PawnsScore(), S(0, 0))
		tr.addBoth(termMobility, e.mobility[vb.White], e.mobility[vb.Black])
		if spaceEvaluated {
			tr.addBoth(termSpace, spaceW, spaceB)
		}
		tr.addBoth(termTotal, score, S(0, 0))
	}

	if pos.SideToMove() == vb.White {
		return v
	}
	return -v
}
