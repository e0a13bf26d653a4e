package groundwork

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electionlab/groundwork/pkg/domain"
)

func TestPlanNeverApplies(t *testing.T) {
	dir := t.TempDir()
	manifest := "backend: remote\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "provision.yaml"), []byte(manifest), 0o644))

	report, _ := Plan(context.Background(), dir)

	require.NotNil(t, report)
	assert.Equal(t, "plan", report.Stage)
	assert.Equal(t, "remote", report.Backend)
	assert.NotEmpty(t, report.Steps)
	for _, step := range report.Steps {
		assert.NotEqual(t, domain.StepApplied, step.Status, "plan applied step %q", step.Name)
	}
}

func TestPlanRejectsBadManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "provision.yaml"), []byte("backend: docker\n"), 0o644))

	_, err := Plan(context.Background(), dir)
	require.Error(t, err)
}
