package matcher

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"faq-bot/database"
	appErrors "faq-bot/errors"
	"faq-bot/textnorm"
)

// MaxCandidates is how many fuzzy candidates are offered for clarification.
const MaxCandidates = 3

// KnowledgeStore is the slice of the FAQ repository the matcher consumes.
type KnowledgeStore interface {
	AllFAQs(ctx context.Context) ([]database.FAQEntry, error)
	IncrementPopularity(ctx context.Context, id int64) error
}

// Outcome classifies a match attempt.
type Outcome int

const (
	// OutcomeExact means an entry's normalized question equals the input.
	OutcomeExact Outcome = iota
	// OutcomeNeedsClarification means fuzzy candidates exist but the user
	// must confirm one before an answer is given.
	OutcomeNeedsClarification
	// OutcomeNoCandidates means the knowledge base is empty.
	OutcomeNoCandidates
)

// Candidate pairs an FAQ entry with its similarity score in [0,100].
// It only lives for the duration of one Match call.
type Candidate struct {
	Entry database.FAQEntry
	Score int
}

// Result is the outcome of one Match call. Entry is set for OutcomeExact,
// Candidates for OutcomeNeedsClarification (descending score, stable on
// ties). Threshold is advisory metadata for UI copy, not a gate: even a
// candidate scoring above it still requires the user's confirmation.
type Result struct {
	Outcome    Outcome
	Entry      *database.FAQEntry
	Candidates []Candidate
	Threshold  int
}

type Matcher struct {
	store     KnowledgeStore
	threshold int
	logger    *zap.Logger
}

func New(store KnowledgeStore, threshold int, logger *zap.Logger) *Matcher {
	return &Matcher{
		store:     store,
		threshold: threshold,
		logger:    logger,
	}
}

// Match resolves raw user text against the knowledge base. An exact hit on
// the normalized question wins immediately and increments the entry's
// popularity. Otherwise every entry is scored with TokenSetRatio and the top
// candidates are returned for clarification; popularity is not touched until
// the user confirms a candidate.
func (m *Matcher) Match(ctx context.Context, rawText string) (Result, error) {
	normQ := textnorm.Normalize(rawText)

	entries, err := m.store.AllFAQs(ctx)
	if err != nil {
		return Result{}, appErrors.WrapError(err, "load faq entries")
	}

	// Exact pass
	for i := range entries {
		if textnorm.Normalize(entries[i].Question) != normQ {
			continue
		}
		if err := m.store.IncrementPopularity(ctx, entries[i].ID); err != nil {
			// Popularity is an approximate counter; a lost increment must
			// not fail the answer.
			m.logger.Warn("Failed to increment FAQ popularity",
				zap.Int64("faq_id", entries[i].ID),
				zap.Error(err))
		}
		entry := entries[i]
		return Result{Outcome: OutcomeExact, Entry: &entry, Threshold: m.threshold}, nil
	}

	if len(entries) == 0 {
		return Result{Outcome: OutcomeNoCandidates, Threshold: m.threshold}, nil
	}

	scored := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		scored = append(scored, Candidate{
			Entry: entry,
			Score: TokenSetRatio(normQ, textnorm.Normalize(entry.Question)),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > MaxCandidates {
		scored = scored[:MaxCandidates]
	}

	m.logger.Debug("Fuzzy match candidates",
		zap.String("question", textnorm.Truncate(normQ, 80)),
		zap.Int("top_score", scored[0].Score),
		zap.Int("candidates", len(scored)))

	return Result{Outcome: OutcomeNeedsClarification, Candidates: scored, Threshold: m.threshold}, nil
}
