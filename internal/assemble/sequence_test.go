package assemble_test

import (
	"math/rand"
	"testing"

	"github.com/testgen-lite/testgen/internal/assemble"
	"github.com/testgen-lite/testgen/internal/bank"
)

func seqStore() *bank.Store {
	return bank.NewStore([]bank.QuestionDefinition{
		{ID: "Q1", Text: "one", Static: true},
		{ID: "Q2", Text: "two", Static: true},
		{ID: "Q3", Static: false, Variants: []bank.Variant{{Text: "a"}, {Text: "b"}, {Text: "c"}}},
	})
}

func qids(s assemble.Sequence) []string {
	out := make([]string, len(s))
	for i, inst := range s {
		out[i] = inst.QID
	}
	return out
}

func TestAppendPreservesOrderAndSkipsUnknown(t *testing.T) {
	var seq assemble.Sequence
	errs := seq.Append(seqStore(), []string{"Q2", "missing", "Q1"}, rand.New(rand.NewSource(1)))
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	got := qids(seq)
	if len(got) != 2 || got[0] != "Q2" || got[1] != "Q1" {
		t.Errorf("sequence = %v, want [Q2 Q1]", got)
	}
}

func TestAppendDuplicatesDrawIndependently(t *testing.T) {
	var seq assemble.Sequence
	rng := rand.New(rand.NewSource(2))
	seq.Append(seqStore(), []string{"Q3", "Q3", "Q3", "Q3", "Q3", "Q3"}, rng)
	if len(seq) != 6 {
		t.Fatalf("len = %d, want 6", len(seq))
	}
	distinct := map[int]bool{}
	for _, inst := range seq {
		if inst.VariantIndex == nil {
			t.Fatal("missing variant index")
		}
		distinct[*inst.VariantIndex] = true
	}
	if len(distinct) < 2 {
		t.Error("six draws over three variants landed on one index; randomness looks shared")
	}
}

func TestMoveBoundariesAreNoOps(t *testing.T) {
	var seq assemble.Sequence
	seq.Append(seqStore(), []string{"Q1", "Q2"}, rand.New(rand.NewSource(1)))

	seq.MoveUp(0)
	seq.MoveDown(1)
	seq.MoveUp(-1)
	seq.MoveDown(99)
	got := qids(seq)
	if got[0] != "Q1" || got[1] != "Q2" {
		t.Errorf("sequence = %v, want [Q1 Q2]", got)
	}

	seq.MoveUp(1)
	got = qids(seq)
	if got[0] != "Q2" || got[1] != "Q1" {
		t.Errorf("after move up: %v, want [Q2 Q1]", got)
	}
	seq.MoveDown(0)
	got = qids(seq)
	if got[0] != "Q1" || got[1] != "Q2" {
		t.Errorf("after move down: %v, want [Q1 Q2]", got)
	}
}

func TestRemoveShiftsAndIgnoresOutOfRange(t *testing.T) {
	var seq assemble.Sequence
	seq.Append(seqStore(), []string{"Q1", "Q2", "Q3"}, rand.New(rand.NewSource(1)))

	seq.Remove(5)
	seq.Remove(-1)
	if len(seq) != 3 {
		t.Fatalf("out-of-range remove changed length to %d", len(seq))
	}

	seq.Remove(1)
	got := qids(seq)
	if len(got) != 2 || got[0] != "Q1" || got[1] != "Q3" {
		t.Errorf("sequence = %v, want [Q1 Q3]", got)
	}
}

func TestAppendThenRemoveAllLeavesEmpty(t *testing.T) {
	var seq assemble.Sequence
	seq.Append(seqStore(), []string{"Q1", "Q2", "Q3"}, rand.New(rand.NewSource(1)))
	// Remove in arbitrary order.
	seq.Remove(1)
	seq.Remove(1)
	seq.Remove(0)
	if len(seq) != 0 {
		t.Errorf("len = %d, want 0", len(seq))
	}
}

func TestReset(t *testing.T) {
	var seq assemble.Sequence
	seq.Append(seqStore(), []string{"Q1", "Q2"}, rand.New(rand.NewSource(1)))
	seq.Reset()
	if len(seq) != 0 {
		t.Errorf("len = %d, want 0", len(seq))
	}
}

func TestAppendBadDefinitionDoesNotBlockBatch(t *testing.T) {
	store := bank.NewStore([]bank.QuestionDefinition{
		{ID: "good", Text: "fine", Static: true},
		{ID: "bad", Params: bank.ParamRules{{Name: "x", Expr: "undeclared+1"}}},
	})
	var seq assemble.Sequence
	errs := seq.Append(store, []string{"bad", "good"}, rand.New(rand.NewSource(1)))
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want one", errs)
	}
	got := qids(seq)
	if len(got) != 1 || got[0] != "good" {
		t.Errorf("sequence = %v, want [good]", got)
	}
}
