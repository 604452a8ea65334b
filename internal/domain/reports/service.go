package reports

import (
	"context"
	"time"

	"tavolo/internal/core/apperror"
	"tavolo/internal/core/businessday"
)

// Service provides range reporting over finalized days.
type Service struct {
	repo    Repository
	catalog CatalogLookup
	loc     *time.Location
}

// NewService creates a new reporting service.
func NewService(repo Repository, catalog CatalogLookup, loc *time.Location) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		loc:     loc,
	}
}

// GetReportsInRange returns day reports with start <= date <= end,
// ascending by date.
func (s *Service) GetReportsInRange(ctx context.Context, start, end businessday.Date) ([]*DayReport, error) {
	if _, err := businessday.Parse(start.String(), s.loc); err != nil {
		return nil, apperror.NewValidation(err.Error()).WithDetail("field", "start")
	}
	if _, err := businessday.Parse(end.String(), s.loc); err != nil {
		return nil, apperror.NewValidation(err.Error()).WithDetail("field", "end")
	}
	if end.Before(start) {
		return nil, apperror.NewValidation("end date before start date").
			WithDetail("start", start.String()).
			WithDetail("end", end.String())
	}
	return s.repo.ListRange(ctx, start, end)
}

// Flatten expands day reports into one row per run, preserving date
// order and within-date run order.
func Flatten(reports []*DayReport) []FlatRun {
	var out []FlatRun
	for _, r := range reports {
		for i, run := range r.Runs {
			out = append(out, FlatRun{Date: r.Date, RunIndex: i, Run: run})
		}
	}
	return out
}

// FlatRange is GetReportsInRange followed by Flatten.
func (s *Service) FlatRange(ctx context.Context, start, end businessday.Date) ([]FlatRun, error) {
	reports, err := s.GetReportsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return Flatten(reports), nil
}
