package memory

import (
	"context"
	"sync"
	"time"

	"dreamKeys/domain"
)

type ReportRepository struct {
	mu      sync.Mutex
	nextID  uint
	reports map[uint]domain.PropertyReport
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{reports: map[uint]domain.PropertyReport{}}
}

func (r *ReportRepository) Create(_ context.Context, report *domain.PropertyReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	report.ID = r.nextID
	report.CreatedAt = time.Now()
	r.reports[report.ID] = *report
	return nil
}

func (r *ReportRepository) FindAll(_ context.Context) ([]domain.PropertyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.PropertyReport, 0, len(r.reports))
	for _, id := range sortedIDs(r.reports) {
		out = append(out, r.reports[id])
	}
	return out, nil
}

func (r *ReportRepository) Delete(_ context.Context, id uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reports[id]; !ok {
		return 0, nil
	}
	delete(r.reports, id)
	return 1, nil
}
