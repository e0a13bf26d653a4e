package ports

import (
	"context"

	"github.com/electionlab/groundwork/pkg/domain"
)

// RunJournal persists run reports so that `groundwork status` can show what
// the last run did long after the process exited.
type RunJournal interface {
	// Save persists the report under its run ID.
	Save(ctx context.Context, report *domain.RunReport) error

	// Load retrieves a report by run ID.
	// Returns domain.ErrRunNotFound if no such run exists.
	Load(ctx context.Context, runID string) (*domain.RunReport, error)

	// Latest returns the most recently started run.
	// Returns domain.ErrRunNotFound when the journal is empty.
	Latest(ctx context.Context) (*domain.RunReport, error)

	// Delete removes a report. Deleting a missing run is not an error.
	Delete(ctx context.Context, runID string) error
}
