package services

import "context"

// CatalogRow is one row of the dimension/question/option join, in the
// store's ORDER BY dimension id, question id, option id. Option is nil when
// a question has no scored options mapped to it.
type CatalogRow struct {
	DimensionID   int64
	DimensionName string
	Question      Question
	Option        *Option
}

// QuestionSummary is the flat admin view of a question.
type QuestionSummary struct {
	ID                int64  `json:"id"`
	Text              string `json:"question_text"`
	Weight            int    `json:"weight"`
	DimensionName     string `json:"dimension_name"`
	QuestionnaireName string `json:"questionnaire_name"`
}

type CatalogStore interface {
	ListCatalogRows(ctx context.Context, questionnaireID int64) ([]CatalogRow, error)
	ListQuestionSummaries(ctx context.Context) ([]QuestionSummary, error)
}

// Catalog is the loaded question catalog of one questionnaire: dimensions in
// ascending id order, questions and options likewise. It is read-only and
// safe to cache; scoring treats it as the source of truth for option scores.
type Catalog struct {
	QuestionnaireID int64
	Dimensions      []DimensionQuestions

	byQuestion map[int64]*Question
}

// Question returns the catalog entry for id, or nil when the questionnaire
// has no such question.
func (c *Catalog) Question(id int64) *Question {
	return c.byQuestion[id]
}

type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// Load fetches and groups the catalog for questionnaireID. An empty result
// is a not-found error, never an empty success. A question that appears with
// zero mapped options is a catalog integrity error: the caller must fail
// closed rather than score it as zero.
func (s *CatalogService) Load(ctx context.Context, questionnaireID int64) (*Catalog, error) {
	rows, err := s.store.ListCatalogRows(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NewNotFoundError("no questions found")
	}

	// Rows arrive ordered by dimension, question, option, so each question's
	// options are contiguous and grouping is a single pass.
	cat := &Catalog{QuestionnaireID: questionnaireID, byQuestion: map[int64]*Question{}}
	lastDim := int64(0)
	lastQuestion := int64(0)
	for _, row := range rows {
		if row.Option == nil {
			return nil, NewIntegrityError("some questions are missing options")
		}
		if len(cat.Dimensions) == 0 || row.DimensionID != lastDim {
			cat.Dimensions = append(cat.Dimensions, DimensionQuestions{Dimension: row.DimensionName})
			lastDim = row.DimensionID
			lastQuestion = 0
		}
		dim := &cat.Dimensions[len(cat.Dimensions)-1]
		if lastQuestion != row.Question.ID {
			dim.Questions = append(dim.Questions, row.Question)
			lastQuestion = row.Question.ID
		}
		q := &dim.Questions[len(dim.Questions)-1]
		q.Options = append(q.Options, *row.Option)
	}
	for di := range cat.Dimensions {
		for qi := range cat.Dimensions[di].Questions {
			q := &cat.Dimensions[di].Questions[qi]
			cat.byQuestion[q.ID] = q
		}
	}
	return cat, nil
}

// ListQuestions returns the flat admin question list, ordered by id.
func (s *CatalogService) ListQuestions(ctx context.Context) ([]QuestionSummary, error) {
	return s.store.ListQuestionSummaries(ctx)
}
