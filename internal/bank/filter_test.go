package bank_test

import (
	"testing"

	"github.com/testgen-lite/testgen/internal/bank"
)

func testStore() *bank.Store {
	return bank.NewStore([]bank.QuestionDefinition{
		{ID: "Q1", Text: "What is 2+2?", Topics: []string{"Arithmetic"}, Courses: []string{"math101"}, QTypes: []string{"numeric"}, Static: true},
		{ID: "Q2", Text: "Define a group.", Topics: []string{"Algebra"}, Courses: []string{"math201"}, QTypes: []string{"essay"}, Static: true},
		{ID: "Q3", Text: "Solve for x.", Static: false, QTypes: []string{"numeric"},
			Variants: []bank.Variant{{Text: "x+1=2"}, {Text: "x+2=5"}}},
	})
}

func ids(qs []bank.QuestionDefinition) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestUnrestrictedReturnsFullBankInOrder(t *testing.T) {
	got := ids(testStore().Filtered(bank.FilterSpec{}))
	want := []string{"Q1", "Q2", "Q3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCourseFilter(t *testing.T) {
	got := ids(testStore().Filtered(bank.FilterSpec{Courses: []string{"math101"}}))
	// Q3 has no courses, so it is unrestricted by course filters.
	want := map[string]bool{"Q1": true, "Q3": true}
	if len(got) != 2 || !want[got[0]] || !want[got[1]] {
		t.Errorf("got %v, want Q1 and Q3", got)
	}
}

func TestKindFilter(t *testing.T) {
	got := ids(testStore().Filtered(bank.FilterSpec{Kinds: []string{bank.KindDynamic}}))
	if len(got) != 1 || got[0] != "Q3" {
		t.Errorf("got %v, want [Q3]", got)
	}
}

func TestTopicFilterUsesUntitledLabel(t *testing.T) {
	got := ids(testStore().Filtered(bank.FilterSpec{Topics: []string{bank.UntitledTopic}}))
	if len(got) != 1 || got[0] != "Q3" {
		t.Errorf("got %v, want [Q3]", got)
	}
}

func TestQTypeFilter(t *testing.T) {
	got := ids(testStore().Filtered(bank.FilterSpec{QTypes: []string{"numeric"}}))
	if len(got) != 2 || got[0] != "Q1" || got[1] != "Q3" {
		t.Errorf("got %v, want [Q1 Q3]", got)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	got := ids(testStore().Filtered(bank.FilterSpec{Search: "DEFINE"}))
	if len(got) != 1 || got[0] != "Q2" {
		t.Errorf("got %v, want [Q2]", got)
	}
}

func TestSearchCoversVariantTexts(t *testing.T) {
	got := ids(testStore().Filtered(bank.FilterSpec{Search: "x+2=5"}))
	if len(got) != 1 || got[0] != "Q3" {
		t.Errorf("got %v, want [Q3]", got)
	}
}

func TestSearchCoversID(t *testing.T) {
	got := ids(testStore().Filtered(bank.FilterSpec{Search: "q2"}))
	if len(got) != 1 || got[0] != "Q2" {
		t.Errorf("got %v, want [Q2]", got)
	}
}

func TestBlankSearchUnrestricted(t *testing.T) {
	got := testStore().Filtered(bank.FilterSpec{Search: "   "})
	if len(got) != 3 {
		t.Errorf("whitespace-only search restricted the bank: %v", ids(got))
	}
}

func TestFiltersAreANDed(t *testing.T) {
	got := ids(testStore().Filtered(bank.FilterSpec{QTypes: []string{"numeric"}, Kinds: []string{bank.KindStatic}}))
	if len(got) != 1 || got[0] != "Q1" {
		t.Errorf("got %v, want [Q1]", got)
	}
}
