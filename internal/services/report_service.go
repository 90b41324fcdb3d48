package services

import (
	"context"
	"time"
)

// ReportSummary is one generated report in the admin listing.
type ReportSummary struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Type        string    `json:"type"`
	SentToEmail string    `json:"sent_to_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportFile carries the stored PDF bytes for download.
type ReportFile struct {
	FileName string
	PDF      []byte
}

type ReportStore interface {
	ListReports(ctx context.Context, nameFilter, dateFilter string) ([]ReportSummary, error)
	GetReportFile(ctx context.Context, id int64) (*ReportFile, error)
}

// ReportService serves read access to generated reports. Generation itself
// happens elsewhere; this layer never writes the reports table.
type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

func (s *ReportService) List(ctx context.Context, nameFilter, dateFilter string) ([]ReportSummary, error) {
	return s.store.ListReports(ctx, nameFilter, dateFilter)
}

func (s *ReportService) Download(ctx context.Context, id int64) (*ReportFile, error) {
	if id <= 0 {
		return nil, NewInvalidError("report id required")
	}
	f, err := s.store.GetReportFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, NewNotFoundError("report not found")
	}
	return f, nil
}
