package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bizpulse/bizpulse/internal/services"
)

// CreateSubmission persists one assessment attempt atomically: the header
// row goes in with a zero placeholder score, response rows follow in batch
// order, then the final score lands in the same transaction. Any failure
// rolls everything back; a retried submission never sees partial state.
func (s *Store) CreateSubmission(ctx context.Context, userID, questionnaireID int64, rows []services.ResponseRow, totalScore float64) (int64, error) {
	var submissionID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO submissions (user_id, questionnaire_id, total_score) VALUES (?, ?, 0)`,
			userID, questionnaireID)
		if err != nil {
			return fmt.Errorf("insert submission: %w", err)
		}
		submissionID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("submission id: %w", err)
		}
		for _, r := range rows {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO responses (submission_id, question_id, option_id) VALUES (?, ?, ?)`,
				submissionID, r.QuestionID, r.OptionID); err != nil {
				return fmt.Errorf("insert response (question %d, option %d): %w", r.QuestionID, r.OptionID, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE submissions SET total_score = ? WHERE id = ?`,
			totalScore, submissionID); err != nil {
			return fmt.Errorf("update total score: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return submissionID, nil
}

// InsertSubmission records a bare submission header with a known score.
func (s *Store) InsertSubmission(ctx context.Context, userID, questionnaireID int64, totalScore float64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (user_id, questionnaire_id, total_score) VALUES (?, ?, ?)`,
		userID, questionnaireID, totalScore)
	if err != nil {
		return 0, fmt.Errorf("insert submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("submission id: %w", err)
	}
	return id, nil
}

func (s *Store) ListSubmissions(ctx context.Context) ([]services.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT s.id, s.user_id, s.questionnaire_id, s.total_score, s.created_at,
               u.name, q.name
        FROM submissions s
        JOIN users u ON s.user_id = u.id
        JOIN questionnaires q ON s.questionnaire_id = q.id
        ORDER BY s.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer closeRows(rows, "ListSubmissions")

	out := []services.Submission{}
	for rows.Next() {
		var sub services.Submission
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.QuestionnaireID, &sub.TotalScore, &sub.CreatedAt,
			&sub.ApplicantName, &sub.QuestionnaireName); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}

// DeleteSubmission removes one submission and its response rows in a single
// transaction. Returns false when no row matched the id.
func (s *Store) DeleteSubmission(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM responses WHERE submission_id = ?`, id); err != nil {
			return fmt.Errorf("delete responses: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete submission: %w", err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
