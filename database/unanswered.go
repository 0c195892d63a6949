package database

import (
	"context"
	"database/sql"
	"fmt"

	appErrors "faq-bot/errors"
)

// AddUnanswered records a question that had to fall back to the LLM, with the
// best fuzzy score seen (if any) so an admin can judge how close the
// knowledge base came.
func (s *PostgresStore) AddUnanswered(ctx context.Context, userID, question string, bestScore *int) (UnansweredQuestion, error) {
	var score sql.NullInt64
	if bestScore != nil {
		score = sql.NullInt64{Int64: int64(*bestScore), Valid: true}
	}

	var entry UnansweredQuestion
	query := `
        INSERT INTO unanswered_questions (user_id, question_text, best_score)
        VALUES ($1, $2, $3)
        RETURNING id, user_id, question_text, best_score, created_at
    `
	err := s.DB.QueryRowContext(ctx, query, userID, question, score).Scan(
		&entry.ID, &entry.UserID, &entry.Question, &entry.BestScore, &entry.CreatedAt)
	if err != nil {
		return UnansweredQuestion{}, fmt.Errorf("failed to add unanswered question: %w", err)
	}
	return entry, nil
}

// RecentUnanswered returns the most recent questions that went to the LLM.
func (s *PostgresStore) RecentUnanswered(ctx context.Context, limit int) ([]UnansweredQuestion, error) {
	query := `
        SELECT id, user_id, question_text, best_score, created_at
        FROM unanswered_questions
        ORDER BY created_at DESC
        LIMIT $1
    `
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unanswered questions: %w", err)
	}
	defer rows.Close()

	var entries []UnansweredQuestion
	for rows.Next() {
		var entry UnansweredQuestion
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Question,
			&entry.BestScore, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unanswered question: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteUnanswered removes one logged question by id.
func (s *PostgresStore) DeleteUnanswered(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM unanswered_questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete unanswered question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}
