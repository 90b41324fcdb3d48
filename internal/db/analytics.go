package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bizpulse/bizpulse/internal/services"
)

func (s *Store) countRow(ctx context.Context, op, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	return s.countRow(ctx, "count users", `SELECT COUNT(*) FROM users`)
}

func (s *Store) CountSubmissions(ctx context.Context) (int, error) {
	return s.countRow(ctx, "count submissions", `SELECT COUNT(*) FROM submissions`)
}

func (s *Store) CountReports(ctx context.Context) (int, error) {
	return s.countRow(ctx, "count reports", `SELECT COUNT(*) FROM reports`)
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	return s.countRow(ctx, "count questions", `SELECT COUNT(*) FROM questions`)
}

func (s *Store) CountSubmissionsByQuestionnaire(ctx context.Context, questionnaireID int64) (int, error) {
	return s.countRow(ctx, "count submissions by questionnaire",
		`SELECT COUNT(*) FROM submissions WHERE questionnaire_id = ?`, questionnaireID)
}

// DimensionAverages returns the average selected-option score per dimension
// of one questionnaire. Dimensions without responses average to zero.
func (s *Store) DimensionAverages(ctx context.Context, questionnaireID int64) ([]services.CategoryScore, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT d.name, IFNULL(AVG(qom.score), 0)
        FROM dimensions d
        LEFT JOIN questions q ON q.dimension_id = d.id
        LEFT JOIN responses r ON r.question_id = q.id
        LEFT JOIN question_option_map qom ON qom.question_id = q.id AND qom.option_id = r.option_id
        WHERE d.questionnaire_id = ?
        GROUP BY d.id
        ORDER BY d.id`, questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("query dimension averages: %w", err)
	}
	defer closeRows(rows, "DimensionAverages")
	return scanCategoryScores(rows)
}

func (s *Store) AverageScorePerTool(ctx context.Context) ([]services.ToolScore, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT q.name, AVG(s.total_score)
        FROM submissions s
        JOIN questionnaires q ON s.questionnaire_id = q.id
        GROUP BY s.questionnaire_id`)
	if err != nil {
		return nil, fmt.Errorf("query average score per tool: %w", err)
	}
	defer closeRows(rows, "AverageScorePerTool")

	out := []services.ToolScore{}
	for rows.Next() {
		var t services.ToolScore
		if err := rows.Scan(&t.Tool, &t.Score); err != nil {
			return nil, fmt.Errorf("scan tool score: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tool scores: %w", err)
	}
	return out, nil
}

// WeakestCategories ranks dimensions by average answered-option score,
// ascending, across all questionnaires.
func (s *Store) WeakestCategories(ctx context.Context) ([]services.CategoryScore, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT d.name, AVG(qom.score)
        FROM responses r
        JOIN questions q ON r.question_id = q.id
        JOIN dimensions d ON q.dimension_id = d.id
        JOIN question_option_map qom ON qom.question_id = r.question_id AND qom.option_id = r.option_id
        GROUP BY d.id
        ORDER BY AVG(qom.score) ASC`)
	if err != nil {
		return nil, fmt.Errorf("query weakest categories: %w", err)
	}
	defer closeRows(rows, "WeakestCategories")
	return scanCategoryScores(rows)
}

func (s *Store) TrendByDay(ctx context.Context, questionnaireID int64) ([]services.TrendPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT DATE(s.created_at), AVG(s.total_score)
        FROM submissions s
        WHERE s.questionnaire_id = ?
        GROUP BY DATE(s.created_at)
        ORDER BY DATE(s.created_at) ASC`, questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("query trend: %w", err)
	}
	defer closeRows(rows, "TrendByDay")

	out := []services.TrendPoint{}
	for rows.Next() {
		var p services.TrendPoint
		if err := rows.Scan(&p.Date, &p.Score); err != nil {
			return nil, fmt.Errorf("scan trend point: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend points: %w", err)
	}
	return out, nil
}

func (s *Store) SubmissionCountsByTool(ctx context.Context) ([]services.ToolCount, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT q.name, COUNT(*)
        FROM submissions s
        JOIN questionnaires q ON s.questionnaire_id = q.id
        GROUP BY s.questionnaire_id`)
	if err != nil {
		return nil, fmt.Errorf("query submissions by tool: %w", err)
	}
	defer closeRows(rows, "SubmissionCountsByTool")

	out := []services.ToolCount{}
	for rows.Next() {
		var t services.ToolCount
		if err := rows.Scan(&t.Tool, &t.Count); err != nil {
			return nil, fmt.Errorf("scan tool count: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tool counts: %w", err)
	}
	return out, nil
}

func scanCategoryScores(rows *sql.Rows) ([]services.CategoryScore, error) {
	out := []services.CategoryScore{}
	for rows.Next() {
		var c services.CategoryScore
		if err := rows.Scan(&c.Name, &c.Score); err != nil {
			return nil, fmt.Errorf("scan category score: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category scores: %w", err)
	}
	return out, nil
}
