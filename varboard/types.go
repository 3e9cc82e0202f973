package varboard

// Color of a side. White moves "up" the board (towards rank 8).
type Color uint8

const (
	White Color = 0
	Black Color = 1

	ColorNB = 2
)

// Flip returns the opposite side.
func (c Color) Flip() Color { return c ^ 1 }

// PieceType is a colorless representation of a chess piece used for table lookups.
type PieceType uint8

const (
	NoPieceType PieceType = 0
	Pawn        PieceType = 1
	Knight      PieceType = 2
	Bishop      PieceType = 3
	Rook        PieceType = 4
	Queen       PieceType = 5
	King        PieceType = 6

	PieceTypeNB = 7
)

// Piece combines a type with a side. Black pieces are encoded as
// (white piece type | 8) so that
//   - piece & 7 gives the type in [1..6]
//   - piece & 8 != 0 indicates Black
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// Type returns the colorless type of the piece (ignores side).
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece defaults to White.
func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// PieceFromType combines a colorless type with a side to produce a concrete Piece.
func PieceFromType(c Color, pt PieceType) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	return Piece(pt) | Piece(c<<3)
}

// Square represents a board position. a1 = 0, h8 = 63, file-major within rank.
type Square int

const NoSquare Square = -1

const (
	SqA1 Square = iota
	SqB1
	SqC1
	SqD1
	SqE1
	SqF1
	SqG1
	SqH1
)

const (
	SqD4 Square = 27
	SqE4 Square = 28
	SqD5 Square = 35
	SqE5 Square = 36
)

// File returns the file index of the square (0 = a-file).
func (s Square) File() int { return int(s) & 7 }

// Rank returns the rank index of the square (0 = rank 1).
func (s Square) Rank() int { return int(s) >> 3 }

// RelativeRank returns the rank from c's point of view (0 = c's back rank).
func RelativeRank(c Color, s Square) int {
	if c == White {
		return s.Rank()
	}
	return 7 - s.Rank()
}

// RelativeSquare mirrors s vertically for Black.
func RelativeSquare(c Color, s Square) Square {
	if c == White {
		return s
	}
	return s ^ 56
}

// MakeSquare builds a square from file and rank indices.
func MakeSquare(file, rank int) Square { return Square(rank*8 + file) }

// PawnPush is the single-push delta for the given side.
func PawnPush(c Color) Square {
	if c == White {
		return 8
	}
	return -8
}

// CastlingRights is a bitmask of the four castling permissions.
type CastlingRights uint8

const (
	CastlingWhiteK CastlingRights = 1 << iota
	CastlingWhiteQ
	CastlingBlackK
	CastlingBlackQ
)

// Variant selects the rule set. The order is load-bearing: every per-variant
// parameter table in the engine package is indexed by this value.
type Variant uint8

const (
	Standard Variant = iota
	Anti
	Atomic
	Crazyhouse
	Extinction
	Grid
	Horde
	KingOfTheHill
	Losers
	Race
	Relay
	ThreeCheck
	TwoKings

	VariantNB = 13
)

var variantNames = [VariantNB]string{
	"standard", "antichess", "atomic", "crazyhouse", "extinction", "grid",
	"horde", "kingofthehill", "losers", "racingkings", "relay", "threecheck",
	"twokings",
}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "unknown"
}

// VariantFromName resolves a lowercase variant name; ok is false for unknown names.
func VariantFromName(name string) (Variant, bool) {
	for v, n := range variantNames {
		if n == name {
			return Variant(v), true
		}
	}
	return Standard, false
}

// Piece values, middlegame and endgame.
const (
	PawnValueMg   = 188
	PawnValueEg   = 248
	KnightValueMg = 764
	KnightValueEg = 848
	BishopValueMg = 826
	BishopValueEg = 891
	RookValueMg   = 1282
	RookValueEg   = 1373
	QueenValueMg  = 2526
	QueenValueEg  = 2646

	MidgameLimit = 15258
	EndgameLimit = 3915
)

// PieceValueMg and PieceValueEg are indexed by PieceType.
var PieceValueMg = [PieceTypeNB]int{
	Pawn: PawnValueMg, Knight: KnightValueMg, Bishop: BishopValueMg,
	Rook: RookValueMg, Queen: QueenValueMg,
}

var PieceValueEg = [PieceTypeNB]int{
	Pawn: PawnValueEg, Knight: KnightValueEg, Bishop: BishopValueEg,
	Rook: RookValueEg, Queen: QueenValueEg,
}

// ValueMate is the magnitude used for decided variant-end positions.
const ValueMate = 32000

// ValueDraw is the draw score.
const ValueDraw = 0
