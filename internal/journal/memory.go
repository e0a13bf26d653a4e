package journal

import (
	"context"
	"sync"

	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/electionlab/groundwork/pkg/ports"
)

// MemoryJournal implements ports.RunJournal in memory, for tests and for
// runs that explicitly do not want a trace on disk.
type MemoryJournal struct {
	mu      sync.RWMutex
	reports map[string]*domain.RunReport
}

var _ ports.RunJournal = (*MemoryJournal)(nil)

// NewMemoryJournal creates an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{reports: make(map[string]*domain.RunReport)}
}

// Save stores a copy of the report.
func (m *MemoryJournal) Save(ctx context.Context, report *domain.RunReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *report
	clone.Steps = append([]domain.StepResult(nil), report.Steps...)
	m.reports[report.ID] = &clone
	return nil
}

// Load retrieves a report by run ID.
func (m *MemoryJournal) Load(ctx context.Context, runID string) (*domain.RunReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	report, ok := m.reports[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	clone := *report
	return &clone, nil
}

// Latest returns the most recently started run.
func (m *MemoryJournal) Latest(ctx context.Context) (*domain.RunReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *domain.RunReport
	for _, report := range m.reports {
		if latest == nil || report.StartedAt.After(latest.StartedAt) {
			latest = report
		}
	}
	if latest == nil {
		return nil, domain.ErrRunNotFound
	}
	clone := *latest
	return &clone, nil
}

// Delete removes a report. Idempotent.
func (m *MemoryJournal) Delete(ctx context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reports, runID)
	return nil
}
