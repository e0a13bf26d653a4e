package pyenv

import (
	"context"
	"fmt"
	"strings"

	"github.com/electionlab/groundwork/internal/config"
	"github.com/electionlab/groundwork/internal/pipeline"
	"github.com/electionlab/groundwork/pkg/ports"
)

// remoteInstaller is the last documented fallback: skip the native model
// binding entirely and point the application at a hosted model API. No
// toolchain, no pinned native dependency. The credentials the application
// will need must actually be present, so they are checked up front.
type remoteInstaller struct {
	b *Builder
}

func (i *remoteInstaller) Name() string { return "remote" }

func (i *remoteInstaller) Steps() ([]ports.Step, error) {
	verifyCredentials := pipeline.FuncStep{
		StepName: "verify api credentials",
		Do: func(ctx context.Context) (string, error) {
			creds, err := config.LoadCredentials(i.b.cfg.CredentialsPath())
			if err != nil {
				return "", err
			}
			if missing := creds.Missing(i.b.cfg.Credentials.Required); len(missing) > 0 {
				return "", fmt.Errorf("credentials file %s is missing %s",
					i.b.cfg.Credentials.Path, strings.Join(missing, ", "))
			}
			return fmt.Sprintf("%d credential keys present", len(i.b.cfg.Credentials.Required)), nil
		},
	}

	return []ports.Step{
		&createVenvStep{b: i.b},
		&upgradePipStep{b: i.b},
		&installRequirementsStep{b: i.b},
		verifyCredentials,
	}, nil
}
