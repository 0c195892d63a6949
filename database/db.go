package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// FAQEntry is one curated question/answer pair in the knowledge base.
// Popularity counts accepted matches (exact or user-confirmed fuzzy) and is
// an approximate counter, not an audit log.
type FAQEntry struct {
	ID         int64
	Question   string
	Answer     string
	Popularity int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CacheEntry is one cached LLM answer, keyed by question hash.
type CacheEntry struct {
	ID        int64
	QHash     string
	Answer    string
	CreatedAt time.Time
	Hits      int
}

// UnansweredQuestion records a question that fell through to the LLM, kept so
// an administrator can later promote it into the knowledge base.
type UnansweredQuestion struct {
	ID        int64
	UserID    string
	Question  string
	BestScore sql.NullInt64
	CreatedAt time.Time
}

type PostgresStore struct {
	DB     *sql.DB
	logger *zap.Logger
}

func NewPostgresStore(connStr string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	logger.Info("Successfully connected to the database")
	return &PostgresStore{DB: db, logger: logger}, nil
}

// EnsureSchema creates the required tables if they do not already exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS faq_entries (
            id BIGSERIAL PRIMARY KEY,
            question TEXT NOT NULL,
            answer TEXT NOT NULL,
            popularity INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_faq_entries_popularity ON faq_entries(popularity DESC, id)`,
		`CREATE TABLE IF NOT EXISTS gpt_cache (
            id BIGSERIAL PRIMARY KEY,
            qhash VARCHAR(64) NOT NULL UNIQUE,
            answer TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            hits INTEGER NOT NULL DEFAULT 0
        )`,
		`CREATE INDEX IF NOT EXISTS idx_gpt_cache_created_at ON gpt_cache(created_at)`,
		`CREATE TABLE IF NOT EXISTS unanswered_questions (
            id BIGSERIAL PRIMARY KEY,
            user_id TEXT NOT NULL,
            question_text TEXT NOT NULL,
            best_score INTEGER,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_unanswered_created_at ON unanswered_questions(created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}
