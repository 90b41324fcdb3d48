package services

import "time"

// Questionnaire ids are fixed seed data. BusinessHealthID is the default
// questionnaire applied at the HTTP boundary when none is given.
const (
	BusinessHealthID     int64 = 1
	FranchiseReadinessID int64 = 2

	DefaultQuestionnaireID = BusinessHealthID
)

type Questionnaire struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Option is one selectable choice for a question, carrying the score
// from question_option_map used by the lookup scoring regime.
type Option struct {
	ID    int64   `json:"id"`
	Text  string  `json:"option_text"`
	Score float64 `json:"score"`
}

type RuleKind string

const (
	// RuleLookup sums the mapped score of the selected option.
	RuleLookup RuleKind = "lookup"
	// RuleNoneFlat awards FlatScore when the none-option is selected,
	// SingleScore for exactly one other selection, and zero otherwise.
	RuleNoneFlat RuleKind = "none_flat"
	// RulePerSelection awards Multiplier per selected option, zero when
	// the none-option is selected.
	RulePerSelection RuleKind = "per_selection"
)

// ScoringRule is the declarative per-question scoring strategy attached to
// a Question in the catalog. The engine interprets it without knowledge of
// any particular seeded questionnaire.
type ScoringRule struct {
	Kind          RuleKind
	NoneOptionID  int64
	FlatScore     float64
	SingleScore   float64
	Multiplier    float64
	MaxSelections int
}

type Question struct {
	ID         int64       `json:"id"`
	Text       string      `json:"question_text"`
	IsMultiple bool        `json:"is_multiple"`
	Weight     int         `json:"weight"`
	Options    []Option    `json:"options"`
	Rule       ScoringRule `json:"-"`
}

// DimensionQuestions groups the questions of one dimension. Catalogs are
// returned as an ordered slice so dimension order (ascending id) survives
// JSON encoding; index-based client flows depend on it.
type DimensionQuestions struct {
	Dimension string     `json:"dimension"`
	Questions []Question `json:"questions"`
}

// Answer is one submitted response: a question and the option ids the
// respondent selected. Multi-select questions carry several ids.
type Answer struct {
	QuestionID        int64   `json:"questionId"`
	SelectedOptionIDs []int64 `json:"selectedOptionIds"`
}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Submission struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	QuestionnaireID   int64     `json:"questionnaire_id"`
	TotalScore        float64   `json:"total_score"`
	CreatedAt         time.Time `json:"created_at"`
	ApplicantName     string    `json:"applicantName"`
	QuestionnaireName string    `json:"questionnaireName"`
}

// ResponseRow is one stored selected-option record. A multi-select answer
// produces several rows sharing the same question id.
type ResponseRow struct {
	SubmissionID int64 `json:"submission_id"`
	QuestionID   int64 `json:"question_id"`
	OptionID     int64 `json:"option_id"`
}

type Admin struct {
	ID       int64
	Name     string
	Email    string
	PassHash []byte
}
