package services

import "context"

// CategoryScore is a dimension name with an average option score.
type CategoryScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// ToolScore is a per-questionnaire aggregate.
type ToolScore struct {
	Tool  string  `json:"tool"`
	Score float64 `json:"avg_score"`
}

type ToolCount struct {
	Tool  string `json:"tool"`
	Count int    `json:"submission_count"`
}

// TrendPoint is one day of the franchise-readiness average score series.
type TrendPoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"avg_score"`
}

type DashboardStats struct {
	TotalUsers                    int             `json:"totalUsers"`
	TotalSubmissions              int             `json:"totalSubmissions"`
	TotalReports                  int             `json:"totalReports"`
	ActiveQuestions               int             `json:"activeQuestions"`
	BusinessHealthSubmissions     int             `json:"businessHealthSubmissions"`
	FranchiseReadinessSubmissions int             `json:"franchiseReadinessSubmissions"`
	BusinessHealthDimensions      []CategoryScore `json:"businessHealthDimensions"`
	FranchiseReadinessDimensions  []CategoryScore `json:"franchiseReadinessDimensions"`
}

type DashboardCharts struct {
	AverageScorePerTool     []ToolScore     `json:"averageScorePerTool"`
	WeakestCategories       []CategoryScore `json:"weakestCategories"`
	FranchiseReadinessTrend []TrendPoint    `json:"franchiseReadinessTrends"`
	SubmissionsByTool       []ToolCount     `json:"submissionsByTool"`
}

// AnalyticsStore exposes the read-only projections behind the dashboard.
// None of these queries write; they run outside the submission transaction.
type AnalyticsStore interface {
	CountUsers(ctx context.Context) (int, error)
	CountSubmissions(ctx context.Context) (int, error)
	CountReports(ctx context.Context) (int, error)
	CountQuestions(ctx context.Context) (int, error)
	CountSubmissionsByQuestionnaire(ctx context.Context, questionnaireID int64) (int, error)
	DimensionAverages(ctx context.Context, questionnaireID int64) ([]CategoryScore, error)
	AverageScorePerTool(ctx context.Context) ([]ToolScore, error)
	WeakestCategories(ctx context.Context) ([]CategoryScore, error)
	TrendByDay(ctx context.Context, questionnaireID int64) ([]TrendPoint, error)
	SubmissionCountsByTool(ctx context.Context) ([]ToolCount, error)
}

type AnalyticsService struct {
	store AnalyticsStore
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

func (s *AnalyticsService) Stats(ctx context.Context) (*DashboardStats, error) {
	out := &DashboardStats{}
	var err error
	if out.TotalUsers, err = s.store.CountUsers(ctx); err != nil {
		return nil, err
	}
	if out.TotalSubmissions, err = s.store.CountSubmissions(ctx); err != nil {
		return nil, err
	}
	if out.TotalReports, err = s.store.CountReports(ctx); err != nil {
		return nil, err
	}
	if out.ActiveQuestions, err = s.store.CountQuestions(ctx); err != nil {
		return nil, err
	}
	if out.BusinessHealthSubmissions, err = s.store.CountSubmissionsByQuestionnaire(ctx, BusinessHealthID); err != nil {
		return nil, err
	}
	if out.FranchiseReadinessSubmissions, err = s.store.CountSubmissionsByQuestionnaire(ctx, FranchiseReadinessID); err != nil {
		return nil, err
	}
	if out.BusinessHealthDimensions, err = s.store.DimensionAverages(ctx, BusinessHealthID); err != nil {
		return nil, err
	}
	if out.FranchiseReadinessDimensions, err = s.store.DimensionAverages(ctx, FranchiseReadinessID); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AnalyticsService) Charts(ctx context.Context) (*DashboardCharts, error) {
	out := &DashboardCharts{}
	var err error
	if out.AverageScorePerTool, err = s.store.AverageScorePerTool(ctx); err != nil {
		return nil, err
	}
	if out.WeakestCategories, err = s.store.WeakestCategories(ctx); err != nil {
		return nil, err
	}
	if out.FranchiseReadinessTrend, err = s.store.TrendByDay(ctx, FranchiseReadinessID); err != nil {
		return nil, err
	}
	if out.SubmissionsByTool, err = s.store.SubmissionCountsByTool(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
