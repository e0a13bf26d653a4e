package ports

import "context"

// Step is a single reconciling unit of provisioning work.
//
// A Step first checks whether the host already satisfies its desired state
// (ShouldRun), and only then mutates the host (Apply). This is what makes
// re-running the pipeline against an already-provisioned host cheap and safe.
type Step interface {
	// Name identifies the step in reports and logs.
	Name() string

	// ShouldRun reports whether Apply needs to run. When it returns false,
	// the reason explains what already satisfies the step (surfaced in the
	// run report as a skip).
	ShouldRun(ctx context.Context) (run bool, reason string, err error)

	// Apply performs the side effect. The returned output is a human-readable
	// tail of whatever the step produced (subprocess output, bytes written)
	// and is kept in the step result for diagnosis.
	Apply(ctx context.Context) (output string, err error)
}

// Installer converts one install strategy into ordered provisioning steps.
// All strategies satisfy the same contract so the backend is selected by a
// single configuration field rather than by following prose instructions.
type Installer interface {
	// Name returns the backend identifier (e.g. "source", "conda", "remote").
	Name() string

	// Steps builds the ordered step list for this strategy.
	Steps() ([]Step, error)
}
