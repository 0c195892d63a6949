package matcher

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"faq-bot/database"
	appErrors "faq-bot/errors"
)

type fakeStore struct {
	entries    []database.FAQEntry
	increments map[int64]int
}

func newFakeStore(entries ...database.FAQEntry) *fakeStore {
	return &fakeStore{entries: entries, increments: make(map[int64]int)}
}

func (f *fakeStore) AllFAQs(ctx context.Context) ([]database.FAQEntry, error) {
	return f.entries, nil
}

func (f *fakeStore) IncrementPopularity(ctx context.Context, id int64) error {
	for _, entry := range f.entries {
		if entry.ID == id {
			f.increments[id]++
			return nil
		}
	}
	return appErrors.ErrNotFound
}

func TestMatchExact(t *testing.T) {
	logger := zap.NewNop()
	store := newFakeStore(
		database.FAQEntry{ID: 1, Question: "How to place an order?", Answer: "Pick an item and checkout."},
	)
	m := New(store, 70, logger)

	result, err := m.Match(context.Background(), "how to place an order?")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if result.Outcome != OutcomeExact {
		t.Fatalf("Outcome = %v, want OutcomeExact", result.Outcome)
	}
	if result.Entry == nil || result.Entry.ID != 1 {
		t.Fatalf("Entry = %+v, want id 1", result.Entry)
	}
	if result.Entry.Answer != "Pick an item and checkout." {
		t.Errorf("Answer = %q", result.Entry.Answer)
	}
	if store.increments[1] != 1 {
		t.Errorf("popularity increments = %d, want 1", store.increments[1])
	}
}

func TestMatchExactNormalizes(t *testing.T) {
	store := newFakeStore(
		database.FAQEntry{ID: 5, Question: "  What   ARE your\topening hours? "},
	)
	m := New(store, 70, zap.NewNop())

	result, err := m.Match(context.Background(), "what are your opening hours?")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if result.Outcome != OutcomeExact {
		t.Fatalf("Outcome = %v, want OutcomeExact", result.Outcome)
	}
}

func TestMatchFuzzy(t *testing.T) {
	store := newFakeStore(
		database.FAQEntry{ID: 1, Question: "How to place an order?", Answer: "Pick an item and checkout."},
	)
	m := New(store, 70, zap.NewNop())

	result, err := m.Match(context.Background(), "How do I place an order?")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if result.Outcome != OutcomeNeedsClarification {
		t.Fatalf("Outcome = %v, want OutcomeNeedsClarification", result.Outcome)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("candidates = %d, want 1", len(result.Candidates))
	}
	if result.Candidates[0].Entry.ID != 1 {
		t.Errorf("top candidate id = %d, want 1", result.Candidates[0].Entry.ID)
	}
	if result.Candidates[0].Score < 70 {
		t.Errorf("top candidate score = %d, want >= 70", result.Candidates[0].Score)
	}
	// A fuzzy candidate is never auto-accepted, so popularity stays put
	// until the user confirms.
	if store.increments[1] != 0 {
		t.Errorf("popularity increments = %d, want 0", store.increments[1])
	}
}

func TestMatchFuzzyAlwaysAsks(t *testing.T) {
	// Even a candidate scoring above the threshold still goes through
	// clarification; the threshold is advisory only.
	store := newFakeStore(
		database.FAQEntry{ID: 1, Question: "How to place an order online?"},
	)
	m := New(store, 10, zap.NewNop())

	result, err := m.Match(context.Background(), "place an order online how")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if result.Outcome != OutcomeNeedsClarification {
		t.Fatalf("Outcome = %v, want OutcomeNeedsClarification", result.Outcome)
	}
	if result.Threshold != 10 {
		t.Errorf("Threshold = %d, want 10", result.Threshold)
	}
}

func TestMatchTopThreeOrdering(t *testing.T) {
	store := newFakeStore(
		database.FAQEntry{ID: 1, Question: "completely unrelated topic zero"},
		database.FAQEntry{ID: 2, Question: "how do i place an order"},
		database.FAQEntry{ID: 3, Question: "how to place my order"},
		database.FAQEntry{ID: 4, Question: "shipping and delivery times"},
		database.FAQEntry{ID: 5, Question: "how to place an order now"},
	)
	m := New(store, 70, zap.NewNop())

	result, err := m.Match(context.Background(), "how to place an order")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if result.Outcome != OutcomeNeedsClarification {
		t.Fatalf("Outcome = %v, want OutcomeNeedsClarification", result.Outcome)
	}
	if len(result.Candidates) != MaxCandidates {
		t.Fatalf("candidates = %d, want %d", len(result.Candidates), MaxCandidates)
	}
	for i := 1; i < len(result.Candidates); i++ {
		if result.Candidates[i].Score > result.Candidates[i-1].Score {
			t.Errorf("candidates not sorted descending at %d: %d > %d",
				i, result.Candidates[i].Score, result.Candidates[i-1].Score)
		}
	}
	for _, candidate := range result.Candidates {
		if candidate.Entry.ID == 1 || candidate.Entry.ID == 4 {
			t.Errorf("unrelated entry %d made the top %d", candidate.Entry.ID, MaxCandidates)
		}
	}
}

func TestMatchStableOnTies(t *testing.T) {
	// Identical questions score identically; store order breaks the tie.
	store := newFakeStore(
		database.FAQEntry{ID: 1, Question: "duplicate question text"},
		database.FAQEntry{ID: 2, Question: "duplicate question text"},
	)
	m := New(store, 70, zap.NewNop())

	result, err := m.Match(context.Background(), "duplicated question texts")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if result.Outcome != OutcomeNeedsClarification {
		t.Fatalf("Outcome = %v, want OutcomeNeedsClarification", result.Outcome)
	}
	if result.Candidates[0].Entry.ID != 1 || result.Candidates[1].Entry.ID != 2 {
		t.Errorf("tie not stable: got ids %d, %d",
			result.Candidates[0].Entry.ID, result.Candidates[1].Entry.ID)
	}
}

func TestMatchEmptyStore(t *testing.T) {
	m := New(newFakeStore(), 70, zap.NewNop())

	result, err := m.Match(context.Background(), "anything at all")
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if result.Outcome != OutcomeNoCandidates {
		t.Fatalf("Outcome = %v, want OutcomeNoCandidates", result.Outcome)
	}
}
