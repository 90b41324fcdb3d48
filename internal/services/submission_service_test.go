package services

import (
	"context"
	"testing"
)

type stubSubmissionStore struct {
	createCalls int
	gotUserID   int64
	gotQID      int64
	gotRows     []ResponseRow
	gotTotal    float64
	nextID      int64
	err         error

	deleted     []int64
	deleteFound bool
}

func (s *stubSubmissionStore) CreateSubmission(ctx context.Context, userID, questionnaireID int64, rows []ResponseRow, totalScore float64) (int64, error) {
	s.createCalls++
	s.gotUserID = userID
	s.gotQID = questionnaireID
	s.gotRows = rows
	s.gotTotal = totalScore
	return s.nextID, s.err
}

func (s *stubSubmissionStore) InsertSubmission(ctx context.Context, userID, questionnaireID int64, totalScore float64) (int64, error) {
	return s.nextID, s.err
}

func (s *stubSubmissionStore) ListSubmissions(ctx context.Context) ([]Submission, error) {
	return nil, s.err
}

func (s *stubSubmissionStore) DeleteSubmission(ctx context.Context, id int64) (bool, error) {
	s.deleted = append(s.deleted, id)
	return s.deleteFound, s.err
}

func submitFixture(store *stubSubmissionStore) *SubmissionService {
	q1 := lookupQuestion(1, 0, 3, 5, 7)
	q2 := Question{
		ID:         2,
		IsMultiple: true,
		Rule:       ScoringRule{Kind: RulePerSelection, NoneOptionID: 299, Multiplier: 1.75},
		Options:    []Option{{ID: 201}, {ID: 202}, {ID: 203}, {ID: 299}},
	}
	rows := catalogRows(1, "Finance", q1, q2)
	catalog := NewCatalogService(&stubCatalogStore{rows: rows})
	return NewSubmissionService(catalog, store)
}

func TestSubmitPersistsRowsInBatchOrder(t *testing.T) {
	store := &stubSubmissionStore{nextID: 7}
	svc := submitFixture(store)

	res, err := svc.Submit(context.Background(), SubmitRequest{
		UserID:          3,
		QuestionnaireID: BusinessHealthID,
		Answers: []Answer{
			{QuestionID: 2, SelectedOptionIDs: []int64{202, 201}},
			{QuestionID: 1, SelectedOptionIDs: []int64{103}},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.SubmissionID != 7 {
		t.Fatalf("SubmissionID = %d, want 7", res.SubmissionID)
	}
	want := 1.75*2 + 7
	if !almostEqual(res.Score, want) {
		t.Fatalf("Score = %v, want %v", res.Score, want)
	}
	if res.Status != "Poor Health" {
		t.Fatalf("Status = %q, want Poor Health", res.Status)
	}
	if !almostEqual(store.gotTotal, want) {
		t.Fatalf("store received total %v, want %v", store.gotTotal, want)
	}
	wantRows := []ResponseRow{
		{QuestionID: 2, OptionID: 202},
		{QuestionID: 2, OptionID: 201},
		{QuestionID: 1, OptionID: 103},
	}
	if len(store.gotRows) != len(wantRows) {
		t.Fatalf("got %d rows, want %d", len(store.gotRows), len(wantRows))
	}
	for i, r := range wantRows {
		if store.gotRows[i] != r {
			t.Fatalf("row %d = %+v, want %+v", i, store.gotRows[i], r)
		}
	}
}

func TestSubmitValidationFailureWritesNothing(t *testing.T) {
	store := &stubSubmissionStore{}
	svc := submitFixture(store)

	cases := []struct {
		name string
		req  SubmitRequest
	}{
		{"missing user", SubmitRequest{QuestionnaireID: BusinessHealthID, Answers: []Answer{{QuestionID: 1, SelectedOptionIDs: []int64{101}}}}},
		{"empty batch", SubmitRequest{UserID: 3, QuestionnaireID: BusinessHealthID}},
		{"none combined with others", SubmitRequest{UserID: 3, QuestionnaireID: BusinessHealthID, Answers: []Answer{{QuestionID: 2, SelectedOptionIDs: []int64{201, 299}}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tc.req)
			se, ok := AsServiceError(err)
			if !ok || se.Code != ErrorInvalid {
				t.Fatalf("expected invalid error, got %v", err)
			}
			if store.createCalls != 0 {
				t.Fatalf("store was written to despite validation failure")
			}
		})
	}
}

func TestSubmitFranchiseClassification(t *testing.T) {
	store := &stubSubmissionStore{nextID: 1}
	q := Question{ID: 1, Rule: ScoringRule{Kind: RuleLookup}, Options: []Option{{ID: 11, Score: 2}}}
	catalog := NewCatalogService(&stubCatalogStore{rows: catalogRows(6, "Personal Readiness", q)})
	svc := NewSubmissionService(catalog, store)

	res, err := svc.Submit(context.Background(), SubmitRequest{
		UserID:          1,
		QuestionnaireID: FranchiseReadinessID,
		Answers:         []Answer{{QuestionID: 1, SelectedOptionIDs: []int64{11}}},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != "Not Ready" {
		t.Fatalf("Status = %q, want Not Ready", res.Status)
	}
}

func TestDeleteSubmission(t *testing.T) {
	store := &stubSubmissionStore{deleteFound: true}
	svc := submitFixture(store)
	if err := svc.Delete(context.Background(), 4); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 4 {
		t.Fatalf("store deleted %v, want [4]", store.deleted)
	}

	store.deleteFound = false
	err := svc.Delete(context.Background(), 5)
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}

	if err := svc.Delete(context.Background(), 0); err == nil {
		t.Fatalf("expected error for zero id")
	}
}
