package services

import "context"

// SubmissionStore abstracts the transactional persistence required by
// SubmissionService. CreateSubmission must be atomic: the submission header
// (placeholder score), its response rows in batch order, and the final score
// update either all commit or none do.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, userID, questionnaireID int64, rows []ResponseRow, totalScore float64) (int64, error)
	InsertSubmission(ctx context.Context, userID, questionnaireID int64, totalScore float64) (int64, error)
	ListSubmissions(ctx context.Context) ([]Submission, error)
	DeleteSubmission(ctx context.Context, id int64) (bool, error)
}

type SubmitRequest struct {
	UserID          int64
	QuestionnaireID int64
	Answers         []Answer
}

type SubmitResult struct {
	SubmissionID int64
	Score        float64
	Status       string
}

// SubmissionService runs the assessment submission workflow: load catalog,
// validate, score, persist atomically, classify.
type SubmissionService struct {
	catalog *CatalogService
	store   SubmissionStore
}

func NewSubmissionService(catalog *CatalogService, store SubmissionStore) *SubmissionService {
	return &SubmissionService{catalog: catalog, store: store}
}

// Submit scores and persists one assessment attempt. Validation and catalog
// errors surface before any write; persistence failures roll the whole
// attempt back inside the store, so retrying a failed submission can never
// observe partial state.
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if req.UserID == 0 {
		return nil, NewInvalidError("user_id required")
	}
	cat, err := s.catalog.Load(ctx, req.QuestionnaireID)
	if err != nil {
		return nil, err
	}
	if err := ValidateAnswers(cat, req.Answers); err != nil {
		return nil, err
	}

	total := TotalScore(cat, req.Answers)
	rows := make([]ResponseRow, 0, len(req.Answers))
	for _, ans := range req.Answers {
		for _, optID := range ans.SelectedOptionIDs {
			rows = append(rows, ResponseRow{QuestionID: ans.QuestionID, OptionID: optID})
		}
	}

	id, err := s.store.CreateSubmission(ctx, req.UserID, req.QuestionnaireID, rows, total)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{
		SubmissionID: id,
		Score:        total,
		Status:       Classify(req.QuestionnaireID, total),
	}, nil
}

// Insert records a bare submission header with a precomputed score. Used by
// admin tooling; the full scoring workflow goes through Submit.
func (s *SubmissionService) Insert(ctx context.Context, userID, questionnaireID int64, totalScore float64) (int64, error) {
	if userID == 0 || questionnaireID == 0 {
		return 0, NewInvalidError("missing required fields for submission")
	}
	return s.store.InsertSubmission(ctx, userID, questionnaireID, totalScore)
}

// List returns all submissions joined with user and questionnaire names,
// ordered by id ascending.
func (s *SubmissionService) List(ctx context.Context) ([]Submission, error) {
	return s.store.ListSubmissions(ctx)
}

// Delete removes a submission and its response rows in one transaction.
// A missing id is a not-found error, distinct from deletion failures.
func (s *SubmissionService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewInvalidError("missing or invalid submission id")
	}
	found, err := s.store.DeleteSubmission(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return NewNotFoundError("submission not found")
	}
	return nil
}
