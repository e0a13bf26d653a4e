/*
Package groundwork reconciles a host toward the environment an LLM-backed
research application needs: a native build toolchain, an isolated Python
environment with a pinned inference library, and a quantized model artifact.

It replaces the usual pile of setup scripts with a declarative pipeline.
Every step is a probe-then-act unit: it first checks whether the host
already satisfies its desired state, and only then mutates anything. This
makes runs idempotent. Re-running `groundwork up` against a provisioned
host skips everything and changes nothing.

# Concept

The manifest (provision.yaml) pins the desired state: compiler and CMake
minimums, the native dependency version and its build flags, the dependency
manifest, and the model artifact URL. The pipeline diffs the host against
that state and applies only the missing pieces, halting at the first
failure so later steps never run against a half-provisioned host.

# Backends

Three interchangeable install strategies satisfy the same contract:

  - source: compile the pinned native dependency from source (default)
  - conda: install a prebuilt package from a conda channel
  - remote: skip the native build and point the application at a hosted API

# Usage

The groundwork binary is the usual entry point:

	groundwork up              # provision everything
	groundwork plan            # show what up would do
	groundwork status          # probe the host, show the last run
	groundwork toolchain       # just the native toolchain
	groundwork env             # just the Python environment
	groundwork model           # just the model artifact

Runs are serialized by a host lock and recorded in a journal (local files
by default, redis for shared hosts), so `groundwork status` can answer
"what happened last time" on any machine.
*/
package groundwork
