package services

// QuestionScore computes the contribution of one answered question by
// interpreting its declared scoring rule. It is a pure function of the
// catalog entry and the selected option ids.
//
// Lookup questions score the first selected option; an option the question
// does not offer contributes zero. The two multi-select rules key off the
// question's none-option and the selection count.
func QuestionScore(q *Question, selected []int64) float64 {
	if q == nil || len(selected) == 0 {
		return 0
	}
	switch q.Rule.Kind {
	case RuleNoneFlat:
		if containsID(selected, q.Rule.NoneOptionID) {
			return q.Rule.FlatScore
		}
		if len(selected) == 1 {
			return q.Rule.SingleScore
		}
		return 0
	case RulePerSelection:
		if containsID(selected, q.Rule.NoneOptionID) {
			return 0
		}
		return q.Rule.Multiplier * float64(len(selected))
	default:
		for _, opt := range q.Options {
			if opt.ID == selected[0] {
				return opt.Score
			}
		}
		return 0
	}
}

// TotalScore sums the per-question contributions of a validated batch.
// Answers referencing questions outside the catalog contribute zero; the
// store's foreign keys reject them at persistence time.
func TotalScore(cat *Catalog, answers []Answer) float64 {
	total := 0.0
	for _, ans := range answers {
		total += QuestionScore(cat.Question(ans.QuestionID), ans.SelectedOptionIDs)
	}
	return total
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
