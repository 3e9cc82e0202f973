package varboard

import (
	"errors"
	"strconv"
	"strings"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// HordeStartFEN is the initial position of Horde chess (White is the horde).
const HordeStartFEN = "rnbqkbnr/pppppppp/8/1PP2PP1/PPPPPPPP/PPPPPPPP/PPPPPPPP/PPPPPPPP w kq - 0 1"

// RaceStartFEN is the initial position of Racing Kings.
const RaceStartFEN = "8/8/8/8/8/8/krbnNBRK/qrbnNBRQ w - - 0 1"

// StartFEN returns the initial FEN for the given variant.
func StartFEN(v Variant) string {
	switch v {
	case Horde:
		return HordeStartFEN
	case Race:
		return RaceStartFEN
	case Crazyhouse:
		return "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1"
	case ThreeCheck:
		return FENStartPos + " +0+0"
	case TwoKings:
		return "rnbqkknr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKKNR w KQkq - 0 1"
	default:
		return FENStartPos
	}
}

// pieceFromChar converts a FEN character to the corresponding Piece constant.
func pieceFromChar(ch rune) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// ParseFEN parses a FEN string into a Position played under the given
// variant. Beyond the standard six fields it accepts
//   - a Crazyhouse hand segment appended to the board field: "...[QRb]"
//   - a trailing Three-check field counting checks given: "+1+0"
//
// The halfmove and fullmove fields are accepted and ignored; the evaluator
// has no use for them.
func ParseFEN(fen string, variant Variant) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, errors.New("invalid FEN: not enough fields")
	}

	pos := &Position{variant: variant, epSquare: NoSquare}

	boardField := fields[0]

	// Crazyhouse hand segment.
	if i := strings.IndexByte(boardField, '['); i >= 0 {
		j := strings.IndexByte(boardField, ']')
		if j < i {
			return nil, errors.New("invalid FEN: unterminated hand segment")
		}
		for _, ch := range boardField[i+1 : j] {
			pc := pieceFromChar(ch)
			if pc == NoPiece {
				return nil, errors.New("invalid FEN: bad piece in hand segment")
			}
			pos.inHand[pc.Color()][pc.Type()]++
		}
		boardField = boardField[:i]
	}

	ranks := strings.Split(boardField, "/")
	if len(ranks) != 8 {
		return nil, errors.New("invalid FEN: incorrect number of ranks")
	}
	for i, rankStr := range ranks {
		rankIndex := 7 - i
		file := 0
		for _, ch := range rankStr {
			switch {
			case ch >= '1' && ch <= '8':
				file += int(ch - '0')
			case ch == '~':
				// Promoted-piece marker (Crazyhouse); placement already done.
			default:
				pc := pieceFromChar(ch)
				if pc == NoPiece || file > 7 {
					return nil, errors.New("invalid FEN: bad piece placement")
				}
				pos.put(MakeSquare(file, rankIndex), pc)
				file++
			}
		}
		if file != 8 {
			return nil, errors.New("invalid FEN: rank does not describe 8 squares")
		}
	}

	switch fields[1] {
	case "w":
		pos.sideToMove = White
	case "b":
		pos.sideToMove = Black
	default:
		return nil, errors.New("invalid FEN: bad side to move")
	}

	if len(fields) > 2 && fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				pos.castling |= CastlingWhiteK
			case 'Q':
				pos.castling |= CastlingWhiteQ
			case 'k':
				pos.castling |= CastlingBlackK
			case 'q':
				pos.castling |= CastlingBlackQ
			default:
				return nil, errors.New("invalid FEN: bad castling rights")
			}
		}
	}

	if len(fields) > 3 && fields[3] != "-" {
		sq, err := parseSquare(fields[3])
		if err != nil {
			return nil, err
		}
		pos.epSquare = sq
	}

	// Optional trailing "+W+B" checks-given field (Three-check).
	last := fields[len(fields)-1]
	if strings.HasPrefix(last, "+") {
		parts := strings.Split(last[1:], "+")
		if len(parts) != 2 {
			return nil, errors.New("invalid FEN: bad checks field")
		}
		w, err1 := strconv.Atoi(parts[0])
		b, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || w < 0 || b < 0 {
			return nil, errors.New("invalid FEN: bad checks field")
		}
		pos.checksGiven[White] = uint8(w)
		pos.checksGiven[Black] = uint8(b)
	}

	if variant == Horde {
		switch {
		case pos.byType[White][King] == 0:
			pos.hordeColor = White
		case pos.byType[Black][King] == 0:
			pos.hordeColor = Black
		default:
			return nil, errors.New("invalid FEN: horde position has two kings")
		}
	}

	return pos, nil
}

// SetChess960 marks the position as using Chess960 castling conventions.
func (p *Position) SetChess960(on bool) { p.chess960 = on }

func parseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, errors.New("invalid FEN: bad square " + s)
	}
	return MakeSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}
