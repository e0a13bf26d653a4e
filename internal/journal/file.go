// Package journal persists run reports and serializes provisioning runs.
// Adapters exist for the local filesystem (default), memory (tests), and
// redis (shared lab hosts).
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/electionlab/groundwork/pkg/ports"
)

// FileJournal implements ports.RunJournal on the local filesystem. Reports
// are JSON files named by run ID under a configured directory.
type FileJournal struct {
	BasePath string
}

var _ ports.RunJournal = (*FileJournal)(nil)

// NewFileJournal creates a file journal. An empty basePath defaults to
// .groundwork/runs.
func NewFileJournal(basePath string) *FileJournal {
	if basePath == "" {
		basePath = filepath.Join(".groundwork", "runs")
	}
	return &FileJournal{BasePath: basePath}
}

// Save persists the report as an indented JSON file.
func (f *FileJournal) Save(ctx context.Context, report *domain.RunReport) error {
	if report.ID == "" {
		return fmt.Errorf("report ID cannot be empty")
	}

	if err := os.MkdirAll(f.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure journal directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(f.BasePath, report.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// Load retrieves a report by run ID.
func (f *FileJournal) Load(ctx context.Context, runID string) (*domain.RunReport, error) {
	if runID == "" {
		return nil, fmt.Errorf("runID cannot be empty")
	}

	data, err := os.ReadFile(filepath.Join(f.BasePath, runID+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// Latest returns the most recently started run.
func (f *FileJournal) Latest(ctx context.Context) (*domain.RunReport, error) {
	entries, err := os.ReadDir(f.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to list journal directory: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	if len(ids) == 0 {
		return nil, domain.ErrRunNotFound
	}

	// Load everything and compare start times rather than trusting file
	// name ordering; IDs are sortable but saved reports may be re-written.
	var latest *domain.RunReport
	for _, id := range ids {
		report, err := f.Load(ctx, id)
		if err != nil {
			continue
		}
		if latest == nil || report.StartedAt.After(latest.StartedAt) {
			latest = report
		}
	}
	if latest == nil {
		return nil, domain.ErrRunNotFound
	}
	return latest, nil
}

// Delete removes a report file. Missing files are not an error.
func (f *FileJournal) Delete(ctx context.Context, runID string) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}
	err := os.Remove(filepath.Join(f.BasePath, runID+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete report file: %w", err)
	}
	return nil
}

// List returns all run IDs, newest first by ID ordering.
func (f *FileJournal) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list journal directory: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}
