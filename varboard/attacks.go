package varboard

import "math/bits"

// Precomputed attack masks for knights and kings from each square.
var knightMoves [64]uint64
var kingMoves [64]uint64

// pawnCaptures[color][sq] gives the squares a pawn of 'color' attacks from 'sq'.
var pawnCaptures [2][64]uint64

// pseudoAttacks[pt][sq] gives empty-board attacks for non-pawn piece types.
var pseudoAttacks [PieceTypeNB][64]uint64

// Masks and lookup tables for magic-like slider attacks (using software pext).
var rookMask [64]uint64
var bishopMask [64]uint64
var rookAttTable [64][]uint64
var bishopAttTable [64][]uint64

func init() {
	initBitboards()
	initAttackTables()
	initSliderTables()
	initLines()
}

// KnightAttacksBB returns the knight attack mask from sq.
func KnightAttacksBB(sq Square) uint64 { return knightMoves[sq] }

// KingAttacksBB returns the king attack mask from sq.
func KingAttacksBB(sq Square) uint64 { return kingMoves[sq] }

// PawnAttacksBB returns the capture mask of a single pawn of color c on sq.
func PawnAttacksBB(c Color, sq Square) uint64 { return pawnCaptures[c][sq] }

// PawnCaptureBB returns the union of squares attacked by all pawns in the mask.
func PawnCaptureBB(c Color, pawns uint64) uint64 {
	return UpLeft(c, pawns) | UpRight(c, pawns)
}

// DoublePawnCaptureBB returns the squares attacked by two pawns of the mask.
func DoublePawnCaptureBB(c Color, pawns uint64) uint64 {
	return UpLeft(c, pawns) & UpRight(c, pawns)
}

// PseudoAttacksBB returns empty-board attacks for a non-pawn piece type.
func PseudoAttacksBB(pt PieceType, sq Square) uint64 { return pseudoAttacks[pt][sq] }

// RookAttacksBB returns rook attacks from sq for the supplied occupancy.
func RookAttacksBB(sq Square, occ uint64) uint64 {
	return rookAttTable[sq][pext(occ, rookMask[sq])]
}

// BishopAttacksBB returns bishop attacks from sq for the supplied occupancy.
func BishopAttacksBB(sq Square, occ uint64) uint64 {
	return bishopAttTable[sq][pext(occ, bishopMask[sq])]
}

// QueenAttacksBB returns queen attacks from sq for the supplied occupancy.
func QueenAttacksBB(sq Square, occ uint64) uint64 {
	return RookAttacksBB(sq, occ) | BishopAttacksBB(sq, occ)
}

// AttacksBB dispatches on the piece type. Pawns are not handled here; use
// PawnAttacksBB with a color.
func AttacksBB(pt PieceType, sq Square, occ uint64) uint64 {
	switch pt {
	case Knight:
		return knightMoves[sq]
	case Bishop:
		return BishopAttacksBB(sq, occ)
	case Rook:
		return RookAttacksBB(sq, occ)
	case Queen:
		return QueenAttacksBB(sq, occ)
	case King:
		return kingMoves[sq]
	}
	return 0
}

// initAttackTables precomputes move attack bitboards for knights, kings, and pawn captures.
func initAttackTables() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8
		var nMask, kMask uint64
		for _, off := range knightOffsets {
			rf, ff := rank+off[0], file+off[1]
			if rf >= 0 && rf < 8 && ff >= 0 && ff < 8 {
				nMask |= uint64(1) << uint(rf*8+ff)
			}
		}
		for _, off := range kingOffsets {
			rf, ff := rank+off[0], file+off[1]
			if rf >= 0 && rf < 8 && ff >= 0 && ff < 8 {
				kMask |= uint64(1) << uint(rf*8+ff)
			}
		}
		knightMoves[sq] = nMask
		kingMoves[sq] = kMask

		if rank < 7 {
			if file > 0 {
				pawnCaptures[White][sq] |= uint64(1) << uint((rank+1)*8+file-1)
			}
			if file < 7 {
				pawnCaptures[White][sq] |= uint64(1) << uint((rank+1)*8+file+1)
			}
		}
		if rank > 0 {
			if file > 0 {
				pawnCaptures[Black][sq] |= uint64(1) << uint((rank-1)*8+file-1)
			}
			if file < 7 {
				pawnCaptures[Black][sq] |= uint64(1) << uint((rank-1)*8+file+1)
			}
		}
	}
}

// rookAttacksSlow walks the four rook rays stopping at blockers.
func rookAttacksSlow(sq int, occ uint64) uint64 {
	var att uint64
	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for _, d := range dirs {
		for r, f := sq/8+d[0], sq%8+d[1]; r >= 0 && r < 8 && f >= 0 && f < 8; r, f = r+d[0], f+d[1] {
			bit := uint64(1) << uint(r*8+f)
			att |= bit
			if occ&bit != 0 {
				break
			}
		}
	}
	return att
}

// bishopAttacksSlow walks the four bishop rays stopping at blockers.
func bishopAttacksSlow(sq int, occ uint64) uint64 {
	var att uint64
	dirs := [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for _, d := range dirs {
		for r, f := sq/8+d[0], sq%8+d[1]; r >= 0 && r < 8 && f >= 0 && f < 8; r, f = r+d[0], f+d[1] {
			bit := uint64(1) << uint(r*8+f)
			att |= bit
			if occ&bit != 0 {
				break
			}
		}
	}
	return att
}

// initSliderTables builds the pext-indexed attack tables for rooks and bishops.
func initSliderTables() {
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8

		// Relevant occupancy masks exclude board edges (a blocker on the
		// edge never shortens the attack set).
		var rm uint64
		for r := rank + 1; r < 7; r++ {
			rm |= 1 << uint(r*8+file)
		}
		for r := rank - 1; r > 0; r-- {
			rm |= 1 << uint(r*8+file)
		}
		for f := file + 1; f < 7; f++ {
			rm |= 1 << uint(rank*8+f)
		}
		for f := file - 1; f > 0; f-- {
			rm |= 1 << uint(rank*8+f)
		}
		rookMask[sq] = rm

		var bm uint64
		for r, f := rank+1, file+1; r < 7 && f < 7; r, f = r+1, f+1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank+1, file-1; r < 7 && f > 0; r, f = r+1, f-1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file+1; r > 0 && f < 7; r, f = r-1, f+1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file-1; r > 0 && f > 0; r, f = r-1, f-1 {
			bm |= 1 << uint(r*8+f)
		}
		bishopMask[sq] = bm

		rBits := bits.OnesCount64(rm)
		bBits := bits.OnesCount64(bm)
		rookAttTable[sq] = make([]uint64, 1<<uint(rBits))
		bishopAttTable[sq] = make([]uint64, 1<<uint(bBits))

		for idx := 0; idx < (1 << uint(rBits)); idx++ {
			occ := pdep(uint64(idx), rm)
			rookAttTable[sq][idx] = rookAttacksSlow(sq, occ)
		}
		for idx := 0; idx < (1 << uint(bBits)); idx++ {
			occ := pdep(uint64(idx), bm)
			bishopAttTable[sq][idx] = bishopAttacksSlow(sq, occ)
		}

		pseudoAttacks[Knight][sq] = knightMoves[sq]
		pseudoAttacks[King][sq] = kingMoves[sq]
		pseudoAttacks[Bishop][sq] = bishopAttacksSlow(sq, 0)
		pseudoAttacks[Rook][sq] = rookAttacksSlow(sq, 0)
		pseudoAttacks[Queen][sq] = pseudoAttacks[Bishop][sq] | pseudoAttacks[Rook][sq]
	}
}

// initLines fills LineBB and BetweenBB from the empty-board slider attacks.
func initLines() {
	for a := Square(0); a < 64; a++ {
		for b := Square(0); b < 64; b++ {
			if a == b {
				continue
			}
			switch {
			case pseudoAttacks[Bishop][a]&SquareBB[b] != 0:
				LineBB[a][b] = (pseudoAttacks[Bishop][a] & pseudoAttacks[Bishop][b]) | SquareBB[a] | SquareBB[b]
				BetweenBB[a][b] = bishopAttacksSlow(int(a), SquareBB[b]) & bishopAttacksSlow(int(b), SquareBB[a])
			case pseudoAttacks[Rook][a]&SquareBB[b] != 0:
				LineBB[a][b] = (pseudoAttacks[Rook][a] & pseudoAttacks[Rook][b]) | SquareBB[a] | SquareBB[b]
				BetweenBB[a][b] = rookAttacksSlow(int(a), SquareBB[b]) & rookAttacksSlow(int(b), SquareBB[a])
			}
		}
	}
}

// software pext: extract bits of x at positions where mask has 1s, packed into low bits
func pext(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m))
		if (x>>bit)&1 != 0 {
			res |= 1 << idx
		}
		idx++
	}
	return res
}

// software pdep: deposit low bits of x into positions of mask
func pdep(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m))
		if (x>>idx)&1 != 0 {
			res |= 1 << bit
		}
		idx++
	}
	return res
}
