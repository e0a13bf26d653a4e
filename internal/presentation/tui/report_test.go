package tui_test

import (
	"strings"
	"testing"
	"time"

	"github.com/electionlab/groundwork/internal/presentation/tui"
	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	started := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	report := &domain.RunReport{
		ID:         "20240601-100000-abcd",
		Stage:      "env",
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Steps: []domain.StepResult{
			{Name: "create venv", Status: domain.StepApplied, Duration: 3 * time.Second},
			{Name: "install cmake", Status: domain.StepSkipped, Reason: "cmake 3.27.7 already on PATH"},
			{Name: "install pinned dependency", Status: domain.StepFailed, Error: "exit status 1", Output: "error: CMake not found"},
			{Name: "install requirements", Status: domain.StepNotRun},
		},
	}

	md := tui.Markdown(report)

	assert.Contains(t, md, "20240601-100000-abcd")
	assert.Contains(t, md, "**failed**")
	assert.Contains(t, md, "cmake 3.27.7 already on PATH")
	assert.Contains(t, md, "exit status 1")
	assert.Contains(t, md, "Output of failed step")
	assert.Contains(t, md, "error: CMake not found")

	// All four steps appear, in order.
	venv := strings.Index(md, "create venv")
	reqs := strings.Index(md, "install requirements")
	assert.Greater(t, reqs, venv)
}

func TestMarkdown_Success(t *testing.T) {
	report := &domain.RunReport{
		ID:    "20240601-110000-ffff",
		Stage: "toolchain",
		Steps: []domain.StepResult{
			{Name: "install compiler", Status: domain.StepSkipped, Reason: "cc 13.2.0 already on PATH"},
			{Name: "cleanup installers", Status: domain.StepSkipped, Reason: "no installer artifacts to remove"},
		},
	}

	md := tui.Markdown(report)
	assert.Contains(t, md, "succeeded")
	assert.NotContains(t, md, "Output of failed step")
}
