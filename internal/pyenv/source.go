package pyenv

import (
	"github.com/electionlab/groundwork/pkg/ports"
)

// sourceInstaller is the default strategy: compile the pinned native
// dependency from source under the manifest's build flags. Mirrors the
// original script sequence, with a toolchain guard in front.
type sourceInstaller struct {
	b *Builder
}

func (i *sourceInstaller) Name() string { return "source" }

func (i *sourceInstaller) Steps() ([]ports.Step, error) {
	return []ports.Step{
		&toolchainGuardStep{b: i.b},
		&createVenvStep{b: i.b},
		&upgradePipStep{b: i.b},
		&buildDepsStep{b: i.b},
		&installPinnedStep{b: i.b},
		&installRequirementsStep{b: i.b},
	}, nil
}
