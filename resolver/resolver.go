// Package resolver ties the matcher, response cache and LLM gateway together
// into the question resolution pipeline. Every failure is converted into a
// single user-visible reply at this boundary; nothing propagates into the
// transport layer.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"faq-bot/cache"
	"faq-bot/database"
	appErrors "faq-bot/errors"
	"faq-bot/llmclient"
	"faq-bot/matcher"
	"faq-bot/textnorm"
)

// Status classifies the reply to one user turn.
type Status int

const (
	// StatusAnswered means Answer carries the final answer text.
	StatusAnswered Status = iota
	// StatusNeedsClarification means the user must pick a candidate (or
	// decline) before an answer is given.
	StatusNeedsClarification
	// StatusRejected means the input was refused (too long, or a
	// clarification reply with no active session); no state advanced.
	StatusRejected
	// StatusFailed means a downstream failure was converted into an
	// apologetic answer; the clarification session was cleared so the user
	// can simply retry.
	StatusFailed
)

// Option is one clarification candidate offered to the user.
type Option struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Score    int    `json:"score"`
}

// Reply is the single outcome of one user turn. Exactly one reply is
// produced per input, never zero or several competing answers.
type Reply struct {
	Status     Status
	Answer     string
	Candidates []Option
	// Threshold is the configured acceptance score, surfaced so UI copy can
	// phrase how confident the candidates are. It does not gate anything.
	Threshold int
}

// Matcher is the knowledge base matching capability the resolver consumes.
type Matcher interface {
	Match(ctx context.Context, rawText string) (matcher.Result, error)
}

// ResponseCache wraps cached LLM answers.
type ResponseCache interface {
	GetOrRefresh(ctx context.Context, key string, generator cache.Generator) (string, error)
}

// LLMGateway is the external generation capability. Injected at construction
// so tests can substitute a double; there is no process-wide provider global.
type LLMGateway interface {
	Generate(ctx context.Context, question string, chunks []llmclient.ContextChunk) (string, error)
}

// Store is the slice of the repository the resolver itself touches: point
// lookups for clarification picks and the unanswered-question log.
type Store interface {
	GetFAQ(ctx context.Context, id int64) (database.FAQEntry, error)
	IncrementPopularity(ctx context.Context, id int64) error
	AddUnanswered(ctx context.Context, userID, question string, bestScore *int) (database.UnansweredQuestion, error)
}

const (
	msgTooLong       = "Your question is too long. Please shorten it to %d characters."
	msgNoSession     = "There is nothing to clarify right now. Just send your question."
	msgEntryGone     = "That answer is no longer available. Please ask your question again."
	msgProviderError = "Sorry, I could not reach the language model: %s. Please try again later."
	msgInternalError = "Something went wrong on our side. Please try again in a moment."
	msgUnknownChoice = "That option was not offered. Please pick one of the suggested questions."
)

type Resolver struct {
	matcher     Matcher
	cache       ResponseCache
	llm         LLMGateway
	store       Store
	sessions    *SessionStore
	maxQuestion int
	logger      *zap.Logger
}

func New(m Matcher, rc ResponseCache, llm LLMGateway, store Store, sessions *SessionStore, maxQuestionLength int, logger *zap.Logger) *Resolver {
	return &Resolver{
		matcher:     m,
		cache:       rc,
		llm:         llm,
		store:       store,
		sessions:    sessions,
		maxQuestion: maxQuestionLength,
		logger:      logger,
	}
}

// Ask handles a fresh question from a user. Depending on the match outcome it
// answers directly, opens a clarification session, or falls back to the LLM
// with an empty context.
func (r *Resolver) Ask(ctx context.Context, userID, rawText string) Reply {
	text := strings.TrimSpace(rawText)
	if len([]rune(text)) > r.maxQuestion {
		// The clarification state, if any, is deliberately left in place.
		return Reply{Status: StatusRejected, Answer: fmt.Sprintf(msgTooLong, r.maxQuestion)}
	}

	// A new question supersedes any pending clarification.
	r.sessions.Clear(userID)

	result, err := r.matcher.Match(ctx, text)
	if err != nil {
		r.logger.Error("Match failed", zap.String("user_id", userID), zap.Error(err))
		return Reply{Status: StatusFailed, Answer: msgInternalError}
	}

	switch result.Outcome {
	case matcher.OutcomeExact:
		r.logger.Info("Exact FAQ match",
			zap.String("user_id", userID),
			zap.Int64("faq_id", result.Entry.ID))
		return Reply{Status: StatusAnswered, Answer: result.Entry.Answer, Threshold: result.Threshold}

	case matcher.OutcomeNoCandidates:
		return r.llmFallback(ctx, userID, text, nil, nil, nil)

	default: // matcher.OutcomeNeedsClarification
		options := make([]Option, len(result.Candidates))
		ids := make([]int64, len(result.Candidates))
		for i, candidate := range result.Candidates {
			options[i] = Option{
				ID:       candidate.Entry.ID,
				Question: candidate.Entry.Question,
				Score:    candidate.Score,
			}
			ids[i] = candidate.Entry.ID
		}
		r.sessions.Put(userID, ClarificationSession{
			OriginalQuestion: text,
			CandidateIDs:     ids,
			BestScore:        result.Candidates[0].Score,
			CreatedAt:        time.Now(),
		})
		return Reply{Status: StatusNeedsClarification, Candidates: options, Threshold: result.Threshold}
	}
}

// Choose handles the user picking one of the offered candidates. The pick is
// validated against the frozen session, the entry's popularity is counted,
// and its stored answer is returned without any LLM involvement.
func (r *Resolver) Choose(ctx context.Context, userID string, faqID int64) Reply {
	session, ok := r.sessions.Get(userID)
	if !ok {
		return Reply{Status: StatusRejected, Answer: msgNoSession}
	}

	offered := false
	for _, id := range session.CandidateIDs {
		if id == faqID {
			offered = true
			break
		}
	}
	if !offered {
		return Reply{Status: StatusRejected, Answer: msgUnknownChoice}
	}

	r.sessions.Clear(userID)

	entry, err := r.store.GetFAQ(ctx, faqID)
	if appErrors.IsNotFound(err) {
		// Deleted between matching and the user's reply.
		return Reply{Status: StatusFailed, Answer: msgEntryGone}
	}
	if err != nil {
		r.logger.Error("FAQ lookup failed", zap.Int64("faq_id", faqID), zap.Error(err))
		return Reply{Status: StatusFailed, Answer: msgInternalError}
	}

	if err := r.store.IncrementPopularity(ctx, faqID); err != nil {
		r.logger.Warn("Failed to increment FAQ popularity",
			zap.Int64("faq_id", faqID), zap.Error(err))
	}

	return Reply{Status: StatusAnswered, Answer: entry.Answer}
}

// Decline handles "none of these": the original question goes to the LLM
// with the session's candidate entries as context, through the cache under a
// context-qualified key.
func (r *Resolver) Decline(ctx context.Context, userID string) Reply {
	session, ok := r.sessions.Consume(userID)
	if !ok {
		return Reply{Status: StatusRejected, Answer: msgNoSession}
	}

	chunks := make([]llmclient.ContextChunk, 0, len(session.CandidateIDs))
	for _, id := range session.CandidateIDs {
		entry, err := r.store.GetFAQ(ctx, id)
		if err != nil {
			// An entry deleted mid-session just shrinks the context.
			continue
		}
		chunks = append(chunks, llmclient.ContextChunk{Question: entry.Question, Answer: entry.Answer})
	}

	bestScore := session.BestScore
	return r.llmFallback(ctx, userID, session.OriginalQuestion, session.CandidateIDs, chunks, &bestScore)
}

// llmFallback serves a question through the response cache, generating with
// the gateway on miss or staleness. contextIDs qualify the cache key so an
// answer produced against one candidate set is never replayed for another.
func (r *Resolver) llmFallback(ctx context.Context, userID, question string, contextIDs []int64, chunks []llmclient.ContextChunk, bestScore *int) Reply {
	if _, err := r.store.AddUnanswered(ctx, userID, question, bestScore); err != nil {
		r.logger.Warn("Failed to record unanswered question", zap.Error(err))
	}

	key := cache.DeriveKey(question, contextIDs)
	answer, err := r.cache.GetOrRefresh(ctx, key, func(ctx context.Context) (string, error) {
		return r.llm.Generate(ctx, question, chunks)
	})
	if err != nil {
		r.logger.Error("LLM fallback failed",
			zap.String("user_id", userID),
			zap.String("question", textnorm.Truncate(question, 80)),
			zap.Error(err))
		if appErrors.IsLLMCommunication(err) {
			return Reply{Status: StatusFailed, Answer: fmt.Sprintf(msgProviderError, err)}
		}
		return Reply{Status: StatusFailed, Answer: msgInternalError}
	}

	return Reply{Status: StatusAnswered, Answer: answer}
}
