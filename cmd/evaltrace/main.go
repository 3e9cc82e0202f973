package main

import (
	"flag"
	"fmt"
	"log"

	"variant-engine/engine"
	vb "variant-engine/varboard"
)

func main() {
	variantName := flag.String("variant", "standard", "variant name (standard, crazyhouse, atomic, ...)")
	fen := flag.String("fen", "", "position to evaluate; defaults to the variant's start position")
	chess960 := flag.Bool("chess960", false, "use Chess960 castling conventions")
	flag.Parse()

	variant, ok := vb.VariantFromName(*variantName)
	if !ok {
		log.Fatalf("unknown variant %q", *variantName)
	}

	f := *fen
	if f == "" {
		f = vb.StartFEN(variant)
	}

	pos, err := vb.ParseFEN(f, variant)
	if err != nil {
		log.Fatalf("parse FEN: %v", err)
	}
	pos.SetChess960(*chess960)

	ev := engine.NewEvaluator()
	fmt.Print(ev.Trace(pos))
	fmt.Printf("\nstatic eval (side to move): %d\n", ev.Evaluate(pos))
}
