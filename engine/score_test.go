package engine

import "testing"

func TestScorePacking(t *testing.T) {
	cases := [][2]int{
		{0, 0}, {1, 2}, {-1, 2}, {1, -2}, {-75, -76}, {32000, -32000},
	}
	for _, c := range cases {
		s := S(c[0], c[1])
		if s.Middle() != c[0] || s.End() != c[1] {
			t.Errorf("S(%d, %d) unpacked to (%d, %d)", c[0], c[1], s.Middle(), s.End())
		}
	}
}

func TestScoreArithmetic(t *testing.T) {
	a := S(10, -20)
	b := S(-3, 5)

	if sum := a + b; sum.Middle() != 7 || sum.End() != -15 {
		t.Errorf("addition is not component-wise: %v", sum)
	}
	if diff := a - b; diff.Middle() != 13 || diff.End() != -25 {
		t.Errorf("subtraction is not component-wise: %v", diff)
	}
	if m := a.Mul(3); m.Middle() != 30 || m.End() != -60 {
		t.Errorf("scaling is not component-wise: %v", m)
	}
	if neg := -a; neg.Middle() != -10 || neg.End() != 20 {
		t.Errorf("negation is not component-wise: %v", neg)
	}
}
