package services

import "fmt"

// ValidateAnswers checks a submitted batch against the catalog's per-question
// rules before anything is written. Every rejection is a validation error,
// distinguishable from storage failures, and leaves no side effects:
//
//   - the batch must not be empty,
//   - every answer must select at least one option,
//   - a question's none-option must not be combined with other options,
//   - a question's selection limit applies when the none-option is absent.
func ValidateAnswers(cat *Catalog, answers []Answer) error {
	if len(answers) == 0 {
		return NewInvalidError("responses required")
	}
	for _, ans := range answers {
		if len(ans.SelectedOptionIDs) == 0 {
			return NewInvalidError(fmt.Sprintf("question %d: no option selected", ans.QuestionID))
		}
		q := cat.Question(ans.QuestionID)
		if q == nil {
			continue
		}
		rule := q.Rule
		if rule.NoneOptionID != 0 && len(ans.SelectedOptionIDs) > 1 && containsID(ans.SelectedOptionIDs, rule.NoneOptionID) {
			return NewInvalidError(fmt.Sprintf("question %d: the none option excludes other selections", q.ID))
		}
		if rule.MaxSelections > 0 && !containsID(ans.SelectedOptionIDs, rule.NoneOptionID) && len(ans.SelectedOptionIDs) > rule.MaxSelections {
			return NewInvalidError(fmt.Sprintf("question %d: at most %d selections allowed", q.ID, rule.MaxSelections))
		}
	}
	return nil
}
