package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appErrors "faq-bot/errors"
)

// CreateFAQ inserts a new knowledge base entry and returns it.
func (s *PostgresStore) CreateFAQ(ctx context.Context, question, answer string) (FAQEntry, error) {
	var entry FAQEntry
	query := `
        INSERT INTO faq_entries (question, answer)
        VALUES ($1, $2)
        RETURNING id, question, answer, popularity, created_at, updated_at
    `
	err := s.DB.QueryRowContext(ctx, query, question, answer).Scan(
		&entry.ID, &entry.Question, &entry.Answer, &entry.Popularity,
		&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return FAQEntry{}, fmt.Errorf("failed to create faq entry: %w", err)
	}
	return entry, nil
}

// GetFAQ returns one entry by id, or ErrNotFound.
func (s *PostgresStore) GetFAQ(ctx context.Context, id int64) (FAQEntry, error) {
	var entry FAQEntry
	query := `
        SELECT id, question, answer, popularity, created_at, updated_at
        FROM faq_entries
        WHERE id = $1
    `
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&entry.ID, &entry.Question, &entry.Answer, &entry.Popularity,
		&entry.CreatedAt, &entry.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return FAQEntry{}, appErrors.ErrNotFound
	}
	if err != nil {
		return FAQEntry{}, fmt.Errorf("failed to get faq entry: %w", err)
	}
	return entry, nil
}

// UpdateFAQ replaces question and answer of an existing entry.
func (s *PostgresStore) UpdateFAQ(ctx context.Context, id int64, question, answer string) error {
	query := `
        UPDATE faq_entries
        SET question = $2, answer = $3, updated_at = NOW()
        WHERE id = $1
    `
	res, err := s.DB.ExecContext(ctx, query, id, question, answer)
	if err != nil {
		return fmt.Errorf("failed to update faq entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

// DeleteFAQ removes an entry by id.
func (s *PostgresStore) DeleteFAQ(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM faq_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete faq entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

// AllFAQs returns every entry. The matcher runs its exact and fuzzy passes
// over the full set; ordering is the store's insertion order.
func (s *PostgresStore) AllFAQs(ctx context.Context) ([]FAQEntry, error) {
	query := `
        SELECT id, question, answer, popularity, created_at, updated_at
        FROM faq_entries
        ORDER BY id
    `
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list faq entries: %w", err)
	}
	defer rows.Close()

	var entries []FAQEntry
	for rows.Next() {
		var entry FAQEntry
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Answer,
			&entry.Popularity, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan faq entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// TopFAQs returns a popularity-ordered page of entries for the FAQ listing.
func (s *PostgresStore) TopFAQs(ctx context.Context, limit, offset int) ([]FAQEntry, error) {
	query := `
        SELECT id, question, answer, popularity, created_at, updated_at
        FROM faq_entries
        ORDER BY popularity DESC, id
        LIMIT $1 OFFSET $2
    `
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list top faq entries: %w", err)
	}
	defer rows.Close()

	var entries []FAQEntry
	for rows.Next() {
		var entry FAQEntry
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Answer,
			&entry.Popularity, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan faq entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CountFAQs returns the number of knowledge base entries, used for paging.
func (s *PostgresStore) CountFAQs(ctx context.Context) (int, error) {
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM faq_entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count faq entries: %w", err)
	}
	return count, nil
}

// IncrementPopularity bumps the usage counter of one entry. Concurrent
// increments may both apply; the counter is last-writer-wins per row and
// only approximately accurate, which is all the ranking needs.
func (s *PostgresStore) IncrementPopularity(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE faq_entries SET popularity = popularity + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment popularity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}
