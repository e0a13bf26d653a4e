package ports

import (
	"context"
	"testing"
	"time"

	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunJournalContract runs a suite of tests to verify that a RunJournal
// implementation adheres to the defined interface contract.
func RunJournalContract(t *testing.T, journal RunJournal) {
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405")

	report := func(id string, started time.Time) *domain.RunReport {
		return &domain.RunReport{
			ID:        id,
			Stage:     "env",
			Backend:   "source",
			StartedAt: started,
			Steps: []domain.StepResult{
				{Name: "create venv", Status: domain.StepApplied},
				{Name: "install requirements", Status: domain.StepFailed, Error: "exit status 1"},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := journal.Save(ctx, report(runID, time.Now()))
		require.NoError(t, err, "Save should not return error")

		loaded, err := journal.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, runID, loaded.ID)
		assert.Len(t, loaded.Steps, 2)
		assert.Equal(t, domain.StepFailed, loaded.Steps[1].Status)
		assert.True(t, loaded.Failed())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := journal.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Latest", func(t *testing.T) {
		older := runID + "-older"
		newer := runID + "-newer"
		require.NoError(t, journal.Save(ctx, report(older, time.Now().Add(-time.Hour))))
		require.NoError(t, journal.Save(ctx, report(newer, time.Now())))
		defer func() {
			_ = journal.Delete(ctx, older)
			_ = journal.Delete(ctx, newer)
		}()

		latest, err := journal.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, newer, latest.ID)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, journal.Save(ctx, report(runID, time.Now())))
		require.NoError(t, journal.Delete(ctx, runID))

		_, err := journal.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		// Idempotent
		assert.NoError(t, journal.Delete(ctx, runID))
	})
}
