package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bizpulse/bizpulse/internal/services"
)

// newTestStore opens an in-memory database, runs the embedded migrations and
// seed, and returns a ready Store. A single connection keeps the in-memory
// database alive for the whole test.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := RunMigrations(conn, ""); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	store, err := NewStore(conn)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

// A migrations directory overrides the embedded files entirely; only the
// directory's .sql files run, in name order.
func TestRunMigrationsDirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	write := func(name, stmts string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(stmts), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("0001_first.sql", `CREATE TABLE IF NOT EXISTS override_marker (id INTEGER PRIMARY KEY);`)
	write("0002_second.sql", `INSERT INTO override_marker (id) VALUES (1);`)
	write("notes.txt", `not a migration`)

	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := RunMigrations(conn, dir); err != nil {
		t.Fatalf("migrations: %v", err)
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM override_marker`).Scan(&count); err != nil {
		t.Fatalf("count marker rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d marker rows, want 1", count)
	}
	if err := conn.QueryRow(`SELECT COUNT(*) FROM questionnaires`).Scan(&count); err == nil {
		t.Fatalf("embedded migrations ran despite the directory override")
	}
}

// A configured path that does not exist falls back to the embedded files.
func TestRunMigrationsMissingDirFallsBack(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := RunMigrations(conn, filepath.Join(t.TempDir(), "missing")); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM questionnaires`).Scan(&count); err != nil {
		t.Fatalf("count questionnaires: %v", err)
	}
	if count != 2 {
		t.Fatalf("got %d questionnaires, want 2", count)
	}
}

// Foreign-key enforcement is per-connection in SQLite. Opening through DSN
// with a multi-connection pool, every connection the pool hands out must
// reject rows that reference missing catalog entries, not just the one that
// happened to run the startup pragmas.
func TestForeignKeysEnforcedAcrossPool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bizpulse.db")
	conn, err := sql.Open("sqlite3", DSN(path))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	conn.SetMaxOpenConns(4)
	t.Cleanup(func() { conn.Close() })

	if err := RunMigrations(conn, ""); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	if _, err := NewStore(conn); err != nil {
		t.Fatalf("new store: %v", err)
	}

	// Hold several connections at once so the pool has to open fresh ones
	// beyond whichever connection served the startup statements.
	ctx := context.Background()
	var held []*sql.Conn
	t.Cleanup(func() {
		for _, c := range held {
			c.Close()
		}
	})
	for i := 0; i < 4; i++ {
		c, err := conn.Conn(ctx)
		if err != nil {
			t.Fatalf("acquire connection %d: %v", i, err)
		}
		held = append(held, c)
	}

	for i, c := range held {
		var fk int
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("connection %d: read foreign_keys: %v", i, err)
		}
		if fk != 1 {
			t.Fatalf("connection %d has foreign_keys=%d, want 1", i, fk)
		}
		if _, err := c.ExecContext(ctx,
			`INSERT INTO responses (submission_id, question_id, option_id) VALUES (999999, 999999, 999999)`); err == nil {
			t.Fatalf("connection %d accepted a response row referencing nothing", i)
		}
	}
}

func TestSeededCatalogShape(t *testing.T) {
	store := newTestStore(t)
	catalog := services.NewCatalogService(store)

	health, err := catalog.Load(context.Background(), services.BusinessHealthID)
	if err != nil {
		t.Fatalf("load business health catalog: %v", err)
	}
	if len(health.Dimensions) != 5 {
		t.Fatalf("business health has %d dimensions, want 5", len(health.Dimensions))
	}
	questionCount := 0
	for _, d := range health.Dimensions {
		questionCount += len(d.Questions)
	}
	if questionCount != 14 {
		t.Fatalf("business health has %d questions, want 14", questionCount)
	}

	franchise, err := catalog.Load(context.Background(), services.FranchiseReadinessID)
	if err != nil {
		t.Fatalf("load franchise catalog: %v", err)
	}
	if len(franchise.Dimensions) != 2 {
		t.Fatalf("franchise has %d dimensions, want 2", len(franchise.Dimensions))
	}
}

func TestSeededScoringRules(t *testing.T) {
	store := newTestStore(t)
	catalog := services.NewCatalogService(store)
	cat, err := catalog.Load(context.Background(), services.BusinessHealthID)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	q5 := cat.Question(5)
	if q5 == nil {
		t.Fatalf("question 5 missing from catalog")
	}
	if q5.Rule.Kind != services.RuleNoneFlat || q5.Rule.NoneOptionID != 20 || q5.Rule.MaxSelections != 2 {
		t.Fatalf("question 5 rule = %+v", q5.Rule)
	}
	if q5.Rule.FlatScore != 6 || q5.Rule.SingleScore != 3 {
		t.Fatalf("question 5 scores = %+v", q5.Rule)
	}

	q14 := cat.Question(14)
	if q14 == nil {
		t.Fatalf("question 14 missing from catalog")
	}
	if q14.Rule.Kind != services.RulePerSelection || q14.Rule.Multiplier != 1.75 || q14.Rule.NoneOptionID != 70 {
		t.Fatalf("question 14 rule = %+v", q14.Rule)
	}

	q1 := cat.Question(1)
	if q1 == nil || q1.Rule.Kind != services.RuleLookup {
		t.Fatalf("question 1 should use the lookup rule, got %+v", q1)
	}
	if len(q1.Options) != 4 {
		t.Fatalf("question 1 has %d options, want 4", len(q1.Options))
	}
}

func TestCatalogMissingQuestionnaire(t *testing.T) {
	store := newTestStore(t)
	_, err := services.NewCatalogService(store).Load(context.Background(), 999)
	se, ok := services.AsServiceError(err)
	if !ok || se.Code != services.ErrorNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCatalogQuestionWithoutOptionsFailsClosed(t *testing.T) {
	store := newTestStore(t)
	_, err := store.db.Exec(`INSERT INTO questions (id, dimension_id, question_text) VALUES (900, 1, 'orphan')`)
	if err != nil {
		t.Fatalf("insert orphan question: %v", err)
	}
	_, err = services.NewCatalogService(store).Load(context.Background(), services.BusinessHealthID)
	se, ok := services.AsServiceError(err)
	if !ok || se.Code != services.ErrorIntegrity {
		t.Fatalf("expected integrity error, got %v", err)
	}
}

func TestSubmissionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	userID, err := store.InsertUser(ctx, "Jane", "jane@example.com")
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	rows := []services.ResponseRow{
		{QuestionID: 1, OptionID: 2},
		{QuestionID: 2, OptionID: 6},
	}
	subID, err := store.CreateSubmission(ctx, userID, services.BusinessHealthID, rows, 8)
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}

	subs, err := store.ListSubmissions(ctx)
	if err != nil {
		t.Fatalf("list submissions: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("got %d submissions, want 1", len(subs))
	}
	got := subs[0]
	if got.ID != subID || got.TotalScore != 8 {
		t.Fatalf("submission = %+v", got)
	}
	if got.ApplicantName != "Jane" || got.QuestionnaireName != "Business Health Assessment" {
		t.Fatalf("joined names = %q, %q", got.ApplicantName, got.QuestionnaireName)
	}

	var responseCount int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM responses WHERE submission_id = ?`, subID).Scan(&responseCount); err != nil {
		t.Fatalf("count responses: %v", err)
	}
	if responseCount != 2 {
		t.Fatalf("got %d responses, want 2", responseCount)
	}

	found, err := store.DeleteSubmission(ctx, subID)
	if err != nil || !found {
		t.Fatalf("delete submission: found=%v err=%v", found, err)
	}
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM responses WHERE submission_id = ?`, subID).Scan(&responseCount); err != nil {
		t.Fatalf("count responses: %v", err)
	}
	if responseCount != 0 {
		t.Fatalf("responses survived submission deletion")
	}

	found, err = store.DeleteSubmission(ctx, subID)
	if err != nil {
		t.Fatalf("delete missing submission: %v", err)
	}
	if found {
		t.Fatalf("deleting a missing submission reported found")
	}
}

// A bad response row must roll back the submission header too.
func TestCreateSubmissionAtomicity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	userID, err := store.InsertUser(ctx, "Jane", "jane@example.com")
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	rows := []services.ResponseRow{
		{QuestionID: 1, OptionID: 2},
		{QuestionID: 1, OptionID: 999999}, // violates the options foreign key
	}
	if _, err := store.CreateSubmission(ctx, userID, services.BusinessHealthID, rows, 3); err == nil {
		t.Fatalf("expected foreign key failure")
	}

	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM submissions`).Scan(&count); err != nil {
		t.Fatalf("count submissions: %v", err)
	}
	if count != 0 {
		t.Fatalf("submission header survived a failed batch")
	}
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&count); err != nil {
		t.Fatalf("count responses: %v", err)
	}
	if count != 0 {
		t.Fatalf("response rows survived a failed batch")
	}
}

func TestDeleteUserCascade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	jane, err := store.InsertUser(ctx, "Jane", "jane@example.com")
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	bob, err := store.InsertUser(ctx, "Bob", "bob@example.com")
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	rows := []services.ResponseRow{{QuestionID: 1, OptionID: 2}}
	if _, err := store.CreateSubmission(ctx, jane, services.BusinessHealthID, rows, 3); err != nil {
		t.Fatalf("create submission: %v", err)
	}
	if _, err := store.CreateSubmission(ctx, jane, services.FranchiseReadinessID, nil, 5); err != nil {
		t.Fatalf("create submission: %v", err)
	}
	if _, err := store.CreateSubmission(ctx, bob, services.BusinessHealthID, rows, 7); err != nil {
		t.Fatalf("create submission: %v", err)
	}

	found, err := store.DeleteUserCascade(ctx, jane)
	if err != nil || !found {
		t.Fatalf("delete user: found=%v err=%v", found, err)
	}

	subs, err := store.ListSubmissions(ctx)
	if err != nil {
		t.Fatalf("list submissions: %v", err)
	}
	if len(subs) != 1 || subs[0].UserID != bob {
		t.Fatalf("expected only bob's submission to remain, got %+v", subs)
	}
	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&count); err != nil {
		t.Fatalf("count responses: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d responses after cascade, want 1", count)
	}
}

func TestEnsureAdminUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.EnsureAdmin(ctx, "Admin", "admin@example.com", []byte("hash-1")); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if err := store.EnsureAdmin(ctx, "Renamed", "admin@example.com", []byte("hash-2")); err != nil {
		t.Fatalf("ensure admin again: %v", err)
	}

	admin, err := store.FindAdminByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if admin == nil {
		t.Fatalf("admin not found")
	}
	if admin.Name != "Renamed" || string(admin.PassHash) != "hash-2" {
		t.Fatalf("admin not updated: %+v", admin)
	}

	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d admin rows, want 1", count)
	}
}

func TestDashboardCountsFromSeed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	questions, err := store.CountQuestions(ctx)
	if err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if questions != 22 {
		t.Fatalf("got %d questions, want 22", questions)
	}

	averages, err := store.DimensionAverages(ctx, services.BusinessHealthID)
	if err != nil {
		t.Fatalf("dimension averages: %v", err)
	}
	if len(averages) != 5 {
		t.Fatalf("got %d dimension averages, want 5", len(averages))
	}
	for _, a := range averages {
		if a.Name == "" {
			t.Fatalf("dimension average with empty name: %+v", averages)
		}
	}
}
