package varboard

import (
	"math/bits"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

func mustParse(t *testing.T, fen string, v Variant) *Position {
	t.Helper()
	pos, err := ParseFEN(fen, v)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestParseFENStartPos(t *testing.T) {
	pos := mustParse(t, FENStartPos, Standard)

	if pos.SideToMove() != White {
		t.Errorf("expected White to move")
	}
	if pos.Count(White, Pawn) != 8 || pos.Count(Black, Pawn) != 8 {
		t.Errorf("expected 8 pawns per side")
	}
	if pos.PieceOn(SqA1) != WhiteRook || pos.PieceOn(SqE1) != WhiteKing {
		t.Errorf("white back rank misplaced")
	}
	if pos.PieceOn(MakeSquare(4, 7)) != BlackKing {
		t.Errorf("expected black king on e8")
	}
	if !pos.CanCastle(White) || !pos.CanCastle(Black) {
		t.Errorf("both sides should retain castling rights")
	}
	if pos.Checkers() != 0 {
		t.Errorf("start position is not a check")
	}

	mg, eg := pos.PSQScore()
	if mg != 0 || eg != 0 {
		t.Errorf("start position psq should be symmetric, got (%d, %d)", mg, eg)
	}
}

func TestStartPosMatchesDragontooth(t *testing.T) {
	pos := mustParse(t, FENStartPos, Standard)
	ref := dragontoothmg.ParseFen(dragontoothmg.Startpos)

	if pos.Pawns(White) != ref.White.Pawns || pos.Pawns(Black) != ref.Black.Pawns {
		t.Errorf("pawn bitboards disagree with dragontooth")
	}
	if pos.Kings(White) != ref.White.Kings || pos.Queens(Black) != ref.Black.Queens {
		t.Errorf("piece bitboards disagree with dragontooth")
	}
	if pos.Occupied() != (ref.White.All | ref.Black.All) {
		t.Errorf("occupancy disagrees with dragontooth")
	}
}

func TestParseFENCrazyhouseHand(t *testing.T) {
	pos := mustParse(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[QRb] w KQkq - 0 1", Crazyhouse)

	if pos.CountInHand(White, Queen) != 1 || pos.CountInHand(White, Rook) != 1 {
		t.Errorf("white hand wrong: Q=%d R=%d", pos.CountInHand(White, Queen), pos.CountInHand(White, Rook))
	}
	if pos.CountInHand(Black, Bishop) != 1 {
		t.Errorf("black hand wrong")
	}
	if pos.CountInHand(White, NoPieceType) != 2 {
		t.Errorf("white total hand wrong")
	}
}

func TestParseFENThreeCheckField(t *testing.T) {
	pos := mustParse(t, FENStartPos+" +2+1", ThreeCheck)
	if pos.ChecksGiven(White) != 2 || pos.ChecksGiven(Black) != 1 {
		t.Errorf("checks field not parsed: %d/%d", pos.ChecksGiven(White), pos.ChecksGiven(Black))
	}
}

func TestParseFENHorde(t *testing.T) {
	pos := mustParse(t, HordeStartFEN, Horde)
	if pos.KingSquare(White) != NoSquare {
		t.Errorf("horde side should have no king")
	}
	if !pos.IsHordeColor(White) || pos.IsHordeColor(Black) {
		t.Errorf("horde color detection wrong")
	}
	if pos.Count(White, Pawn) != 36 {
		t.Errorf("expected 36 horde pawns, got %d", pos.Count(White, Pawn))
	}
}

func TestAttackersToAndPins(t *testing.T) {
	// White queen e2 pinned against the king e1 by the rook e8.
	pos := mustParse(t, "4r1k1/8/8/8/8/8/4Q3/4K3 w - - 0 1", Standard)

	pinned := pos.PinnedPieces(White)
	if pinned != SquareBB[MakeSquare(4, 1)] {
		t.Errorf("expected the e2 queen to be pinned, got %016x", pinned)
	}
	if pos.PinnedPieces(Black) != 0 {
		t.Errorf("black has no pinned pieces")
	}

	attackers := pos.AttackersTo(MakeSquare(4, 1), pos.Occupied())
	if attackers&pos.Kings(White) == 0 {
		t.Errorf("white king defends e2")
	}
	if attackers&pos.Rooks(Black) == 0 {
		t.Errorf("the e8 rook attacks the queen on e2")
	}
}

func TestSliderBlockers(t *testing.T) {
	// Queen e2 blocks the e8 rook; knight c3 blocks the a5 bishop.
	pos := mustParse(t, "4r1k1/8/8/b7/8/2N5/4Q3/4K3 w - - 0 1", Standard)

	blockers, pinners := pos.SliderBlockers(pos.ByColor(Black), pos.KingSquare(White))
	wantBlockers := SquareBB[MakeSquare(4, 1)] | SquareBB[MakeSquare(2, 2)]
	if blockers != wantBlockers {
		t.Errorf("blockers: got %016x want %016x", blockers, wantBlockers)
	}
	if pinners != pos.Rooks(Black)|pos.Bishops(Black) {
		t.Errorf("both sliders should pin")
	}

	// A doubly blocked line produces no blockers.
	pos = mustParse(t, "4r1k1/8/8/8/4n3/8/4Q3/4K3 w - - 0 1", Standard)
	blockers, _ = pos.SliderBlockers(pos.ByColor(Black), pos.KingSquare(White))
	if blockers != 0 {
		t.Errorf("two pieces on the line pin neither, got %016x", blockers)
	}
}

func TestPawnPassedAndOppositeBishops(t *testing.T) {
	pos := mustParse(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", Standard)
	if !pos.PawnPassed(White, MakeSquare(4, 1)) {
		t.Errorf("lone e2 pawn is passed")
	}

	pos = mustParse(t, "5k2/6p1/8/8/1b6/8/6P1/4KB2 w - - 0 1", Standard)
	if !pos.OppositeBishops() {
		t.Errorf("f1/b4 bishops are on opposite colors")
	}

	pos = mustParse(t, "5k2/6p1/8/8/2b5/8/6P1/4KB2 w - - 0 1", Standard)
	if pos.OppositeBishops() {
		t.Errorf("f1/c4 bishops are on same-colored squares")
	}
}

func TestGridBB(t *testing.T) {
	pos := mustParse(t, FENStartPos, Grid)
	cell := pos.GridBB(SqA1)
	want := SquareBB[SqA1] | SquareBB[SqB1] | SquareBB[MakeSquare(0, 1)] | SquareBB[MakeSquare(1, 1)]
	if cell != want {
		t.Errorf("a1 grid cell: got %016x want %016x", cell, want)
	}
	if bits.OnesCount64(pos.GridBB(SqE4)) != 4 {
		t.Errorf("grid cells contain four squares")
	}
	if pos.GridBB(SqE4) != pos.GridBB(MakeSquare(5, 2)) {
		t.Errorf("e4 and f3 share a cell")
	}
}

func TestVariantEnds(t *testing.T) {
	// King of the hill: white king on e4 wins.
	pos := mustParse(t, "4k3/8/8/8/4K3/8/8/8 w - - 0 1", KingOfTheHill)
	if !pos.IsVariantEnd() {
		t.Fatalf("king on e4 ends a KotH game")
	}
	if pos.VariantResult() != ValueMate {
		t.Errorf("white to move has won: got %d", pos.VariantResult())
	}
	pos = mustParse(t, "4k3/8/8/8/4K3/8/8/8 b - - 0 1", KingOfTheHill)
	if pos.VariantResult() != -ValueMate {
		t.Errorf("black to move has lost: got %d", pos.VariantResult())
	}

	// Three checks delivered.
	pos = mustParse(t, FENStartPos+" +3+0", ThreeCheck)
	if !pos.IsVariantEnd() || pos.VariantResult() != ValueMate {
		t.Errorf("three checks by White should win with White to move")
	}

	// Standard game never ends by variant rule.
	pos = mustParse(t, FENStartPos, Standard)
	if pos.IsVariantEnd() {
		t.Errorf("standard chess has no variant end")
	}

	// Racing kings: black king on the 8th rank.
	pos = mustParse(t, "1k6/8/8/8/8/8/8/K7 w - - 0 1", Race)
	if !pos.IsVariantEnd() || pos.VariantResult() != -ValueMate {
		t.Errorf("black king on b8 wins the race")
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",      // 7 ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq -", // bad stm
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KZkq -", // bad castling
		"9/8/8/8/8/8/8/8 w - -",                                // bad rank
	}
	for _, fen := range bad {
		if _, err := ParseFEN(fen, Standard); err == nil {
			t.Errorf("expected error for %q", fen)
		}
	}
}
