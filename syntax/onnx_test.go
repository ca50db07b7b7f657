package syntax

import (
	"testing"
)

func matrixScore(m [][]float32) func(dep, head int) float32 {
	return func(dep, head int) float32 { return m[dep][head] }
}

func TestGreedyHeads(t *testing.T) {
	// rows are dependents 1..3 (row 0 unused), columns heads 0..3
	m := [][]float32{
		{},
		{0, 0, 5, 1}, // 1 <- 2
		{9, 1, 0, 2}, // 2 <- root
		{0, 1, 7, 0}, // 3 <- 2
	}

	got := GreedyHeads(3, matrixScore(m))
	want := []int{2, 0, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("GreedyHeads = %v, want %v", got, want)
		}
	}
}

func TestGreedyHeads_BreaksCycles(t *testing.T) {
	// 1 and 2 prefer each other; 2 has the better root score
	m := [][]float32{
		{},
		{1, 0, 9, 0},
		{3, 9, 0, 0},
		{0, 0, 9, 0},
	}

	heads := GreedyHeads(3, matrixScore(m))
	if heads[1] != 0 {
		t.Errorf("expected token 2 re-attached to root, got heads %v", heads)
	}
	if _, err := FromHeads([]string{"a", "b", "c"}, heads); err != nil {
		t.Errorf("heads %v do not form a tree: %v", heads, err)
	}
}

func TestGreedyHeads_SingleWord(t *testing.T) {
	heads := GreedyHeads(1, func(int, int) float32 { return 0 })
	if len(heads) != 1 || heads[0] != 0 {
		t.Errorf("GreedyHeads(1) = %v, want [0]", heads)
	}
}

func TestFindCycle(t *testing.T) {
	if c := findCycle([]int{0, 1, 2}); c != nil {
		t.Errorf("unexpected cycle %v", c)
	}
	c := findCycle([]int{0, 3, 4, 2})
	if len(c) != 3 {
		t.Errorf("findCycle = %v, want the 2-3-4 cycle", c)
	}
}
