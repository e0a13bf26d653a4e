package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	statushttp "github.com/electionlab/groundwork/internal/adapters/http"
	"github.com/electionlab/groundwork/internal/config"
	"github.com/electionlab/groundwork/internal/fetch"
	"github.com/electionlab/groundwork/internal/pipeline"
	"github.com/electionlab/groundwork/pkg/ports"
)

// progressLogEvery is how many bytes pass between download progress lines.
// The model artifact is several gigabytes; per-chunk logging would drown
// everything else.
const progressLogEvery = 256 << 20

// modelStep downloads the quantized model artifact to its fixed location.
// An existing file satisfies the step regardless of its age, matching the
// original fetch scripts.
func modelStep(cfg *config.Config, fetcher *fetch.Fetcher, metrics *statushttp.Metrics, logger *slog.Logger) ports.Step {
	dest := cfg.Model.Path(cfg.ProjectDir)

	return pipeline.FuncStep{
		StepName: "fetch model artifact",
		Check: func(ctx context.Context) (bool, string, error) {
			if cfg.Model.URL == "" {
				return false, "no model configured", nil
			}
			if _, err := os.Stat(dest); err == nil {
				return false, fmt.Sprintf("%s already present", cfg.Model.Name), nil
			}
			return true, "", nil
		},
		Do: func(ctx context.Context) (string, error) {
			var lastLogged int64
			written, err := fetcher.Download(ctx, cfg.Model.URL, dest, fetch.Options{
				SHA256: cfg.Model.SHA256,
				Progress: func(done, total int64) {
					if done-lastLogged < progressLogEvery {
						return
					}
					lastLogged = done
					logger.Info("downloading model", "done_bytes", done, "total_bytes", total)
				},
			})
			metrics.AddDownloadBytes(written)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("downloaded %d bytes to %s", written, dest), nil
		},
	}
}
