package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bizpulse/bizpulse/internal/services"
)

// ListReports lists generated reports newest first, optionally filtered by
// user name substring and by creation date (YYYY-MM-DD).
func (s *Store) ListReports(ctx context.Context, nameFilter, dateFilter string) ([]services.ReportSummary, error) {
	query := `
        SELECT r.id, u.name, qn.name, IFNULL(r.sent_to_email, ''), r.created_at
        FROM reports r
        JOIN submissions s ON r.submission_id = s.id
        JOIN users u ON s.user_id = u.id
        JOIN questionnaires qn ON s.questionnaire_id = qn.id
        WHERE 1=1`
	args := []any{}
	if nameFilter != "" {
		query += ` AND u.name LIKE ?`
		args = append(args, "%"+nameFilter+"%")
	}
	if dateFilter != "" {
		query += ` AND DATE(r.created_at) = ?`
		args = append(args, dateFilter)
	}
	query += ` ORDER BY r.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer closeRows(rows, "ListReports")

	out := []services.ReportSummary{}
	for rows.Next() {
		var r services.ReportSummary
		if err := rows.Scan(&r.ID, &r.Username, &r.Type, &r.SentToEmail, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}

// InsertReport stores a generated PDF against its submission.
func (s *Store) InsertReport(ctx context.Context, submissionID int64, fileName string, pdf []byte, sentToEmail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (submission_id, file_name, pdf_data, sent_to_email) VALUES (?, ?, ?, ?)`,
		submissionID, fileName, pdf, sentToEmail)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *Store) GetReportFile(ctx context.Context, id int64) (*services.ReportFile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT file_name, pdf_data FROM reports WHERE id = ?`, id)
	var f services.ReportFile
	if err := row.Scan(&f.FileName, &f.PDF); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report file: %w", err)
	}
	return &f, nil
}
