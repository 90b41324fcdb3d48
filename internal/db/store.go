package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/bizpulse/bizpulse/internal/services"
)

func closeRows(rows *sql.Rows, op string) {
	if err := rows.Close(); err != nil {
		log.Printf("sqlite store: %s: rows.Close: %v", op, err)
	}
}

// Store is the SQLite-backed persistence layer. One Store wraps one pooled
// *sql.DB handle; it is injected into the services rather than held as a
// package singleton so tests can swap in an in-memory database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	// The DSN repeats foreign_keys so every pooled connection enforces it;
	// the pragma here covers handles opened without the DSN, such as
	// single-connection in-memory databases.
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &Store{db: db}, nil
}

// DSN builds the sqlite connection string for path. Foreign-key enforcement
// is per-connection in SQLite, so it rides in the DSN where the driver
// applies it to every connection the pool opens; a pragma issued through the
// pool would reach only one. The busy timeout keeps concurrent writers
// queueing instead of failing fast.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000&_foreign_keys=on", path)
}

// withTx runs fn inside a transaction, rolling back on any error so no
// partial state is ever visible. Commit errors surface to the caller.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListCatalogRows returns the dimension/question/option join for one
// questionnaire ordered by dimension id, question id, option id. Questions
// without options, and options without a score mapping, come back with a
// nil Option so the catalog loader can fail closed.
func (s *Store) ListCatalogRows(ctx context.Context, questionnaireID int64) ([]services.CatalogRow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT d.id, d.name,
               q.id, q.question_text, q.is_multiple, q.weight,
               q.scoring_rule, q.none_option_id, q.flat_score, q.single_score, q.multiplier, q.max_selections,
               o.id, o.option_text, qom.score
        FROM dimensions d
        JOIN questions q ON q.dimension_id = d.id
        LEFT JOIN options o ON o.question_id = q.id
        LEFT JOIN question_option_map qom ON qom.question_id = q.id AND qom.option_id = o.id
        WHERE d.questionnaire_id = ?
        ORDER BY d.id, q.id, o.id`, questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer closeRows(rows, "ListCatalogRows")

	var out []services.CatalogRow
	for rows.Next() {
		var (
			row        services.CatalogRow
			isMultiple int64
			rule       string
			noneOpt    sql.NullInt64
			flat       sql.NullFloat64
			single     sql.NullFloat64
			multiplier sql.NullFloat64
			maxSel     sql.NullInt64
			optID      sql.NullInt64
			optText    sql.NullString
			optScore   sql.NullFloat64
		)
		if err := rows.Scan(
			&row.DimensionID, &row.DimensionName,
			&row.Question.ID, &row.Question.Text, &isMultiple, &row.Question.Weight,
			&rule, &noneOpt, &flat, &single, &multiplier, &maxSel,
			&optID, &optText, &optScore,
		); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		row.Question.IsMultiple = isMultiple != 0
		row.Question.Rule = services.ScoringRule{
			Kind:          services.RuleKind(rule),
			NoneOptionID:  noneOpt.Int64,
			FlatScore:     flat.Float64,
			SingleScore:   single.Float64,
			Multiplier:    multiplier.Float64,
			MaxSelections: int(maxSel.Int64),
		}
		if optID.Valid && optScore.Valid {
			row.Option = &services.Option{ID: optID.Int64, Text: optText.String, Score: optScore.Float64}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	return out, nil
}

// ListQuestionSummaries returns the flat admin question list ordered by id.
func (s *Store) ListQuestionSummaries(ctx context.Context) ([]services.QuestionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT q.id, q.question_text, q.weight, d.name, qn.name
        FROM questions q
        JOIN dimensions d ON q.dimension_id = d.id
        JOIN questionnaires qn ON d.questionnaire_id = qn.id
        ORDER BY q.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer closeRows(rows, "ListQuestionSummaries")

	var out []services.QuestionSummary
	for rows.Next() {
		var q services.QuestionSummary
		if err := rows.Scan(&q.ID, &q.Text, &q.Weight, &q.DimensionName, &q.QuestionnaireName); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}
