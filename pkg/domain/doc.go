// Package domain contains the core types shared across groundwork:
// provisioning step results, run reports, and host toolchain state.
// It has no dependencies on the engine or any adapter.
package domain
