package progress_test

import (
	"math/rand/v2"
	"testing"

	"github.com/desertthunder/breakfast/internal/progress"
	tu "github.com/desertthunder/breakfast/internal/testing"
)

func newSeeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestShuffle(t *testing.T) {
	t.Run("scripted draws", func(t *testing.T) {
		got := progress.Shuffle([]string{"A=1", "B=2", "C=3"}, &tu.ScriptedRand{Values: []int{2, 0}})
		want := []string{"B=2", "A=1", "C=3"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Shuffle() = %v, want %v", got, want)
			}
		}
	})

	t.Run("input untouched", func(t *testing.T) {
		in := []string{"A", "B", "C"}
		progress.Shuffle(in, newSeeded(1))
		if in[0] != "A" || in[1] != "B" || in[2] != "C" {
			t.Errorf("input mutated: %v", in)
		}
	})

	t.Run("empty and single", func(t *testing.T) {
		if got := progress.Shuffle(nil, newSeeded(1)); len(got) != 0 {
			t.Errorf("expected empty, got %v", got)
		}
		if got := progress.Shuffle([]string{"A"}, newSeeded(1)); len(got) != 1 || got[0] != "A" {
			t.Errorf("expected [A], got %v", got)
		}
	})

	t.Run("roughly uniform first position", func(t *testing.T) {
		r := newSeeded(42)
		counts := map[string]int{}
		for i := 0; i < 3000; i++ {
			counts[progress.Shuffle([]string{"A", "B", "C"}, r)[0]]++
		}
		for _, k := range []string{"A", "B", "C"} {
			if counts[k] < 850 || counts[k] > 1150 {
				t.Errorf("first position %s drawn %d times out of 3000", k, counts[k])
			}
		}
	})
}
