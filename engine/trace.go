package engine

import (
	"fmt"
	"strings"

	vb "variant-engine/varboard"
)

// Trace term indices. The first slots coincide with the PieceType values so
// the per-piece sub-evaluations can record under their own type.
const (
	termMaterial = 8 + iota
	termImbalance
	termMobility
	termThreat
	termPassed
	termSpace
	termInitiative
	termTotal
	termNB
)

// tracer records the per-term centipawn breakdown of one evaluation call.
// Each call owns its tracer; the non-tracing path never allocates one.
type tracer struct {
	scores [termNB][2][2]float64
}

func toCp(v int) float64 { return float64(v) / vb.PawnValueEg }

func (t *tracer) add(term int, c vb.Color, s Score) {
	t.scores[term][c][0] = toCp(s.Middle())
	t.scores[term][c][1] = toCp(s.End())
}

func (t *tracer) addBoth(term int, w, b Score) {
	t.add(term, vb.White, w)
	t.add(term, vb.Black, b)
}

func (t *tracer) row(sb *strings.Builder, name string, term int) {
	w := t.scores[term][vb.White]
	b := t.scores[term][vb.Black]

	fmt.Fprintf(sb, "%15s | ", name)
	if term == termMaterial || term == termImbalance || term == int(vb.Pawn) ||
		term == termInitiative || term == termTotal {
		sb.WriteString("  ---   --- |   ---   --- | ")
	} else {
		fmt.Fprintf(sb, "%5.2f %5.2f | %5.2f %5.2f | ", w[0], w[1], b[0], b[1])
	}
	fmt.Fprintf(sb, "%5.2f %5.2f \n", w[0]-b[0], w[1]-b[1])
}

// Trace runs the evaluation in tracing mode and renders the per-term
// breakdown, ending with the total from White's point of view.
func (ev *Evaluator) Trace(pos *vb.Position) string {
	var tr tracer

	v := ev.value(pos, &tr) + Tempo[pos.Variant()]
	if pos.SideToMove() == vb.Black {
		v = -v
	}

	var sb strings.Builder
	sb.WriteString("      Eval term |    White    |    Black    |    Total    \n")
	sb.WriteString("                |   MG    EG  |   MG    EG  |   MG    EG  \n")
	sb.WriteString("----------------+-------------+-------------+-------------\n")
	tr.row(&sb, "Material", termMaterial)
	tr.row(&sb, "Imbalance", termImbalance)
	tr.row(&sb, "Pawns", int(vb.Pawn))
	tr.row(&sb, "Knights", int(vb.Knight))
	tr.row(&sb, "Bishops", int(vb.Bishop))
	tr.row(&sb, "Rooks", int(vb.Rook))
	tr.row(&sb, "Queens", int(vb.Queen))
	tr.row(&sb, "Mobility", termMobility)
	tr.row(&sb, "King safety", int(vb.King))
	tr.row(&sb, "Threats", termThreat)
	tr.row(&sb, "Passed pawns", termPassed)
	tr.row(&sb, "Space", termSpace)
	tr.row(&sb, "Initiative", termInitiative)
	sb.WriteString("----------------+-------------+-------------+-------------\n")
	tr.row(&sb, "Total", termTotal)

	fmt.Fprintf(&sb, "\nTotal Evaluation: %.2f (white side)\n", toCp(v))

	return sb.String()
}
