package toolchain

import (
	"context"
	"testing"

	"github.com/electionlab/groundwork/internal/adapters/process"
	"github.com/electionlab/groundwork/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func TestParseVersion(t *testing.T) {
	cases := []struct {
		name   string
		output string
		want   string
	}{
		{"gcc", "gcc (Ubuntu 13.2.0-23ubuntu4) 13.2.0", "13.2.0"},
		{"cmake", "cmake version 3.27.7\n\nCMake suite maintained by Kitware", "3.27.7"},
		{"msvc banner", "Microsoft (R) C/C++ Optimizing Compiler Version 19.38.33130 for x64", "19.38.33130"},
		{"two part", "clang version 17.0", "17.0"},
		{"garbage", "no digits here", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseVersion(tc.output))
		})
	}
}

func TestVersionAtLeast(t *testing.T) {
	cases := []struct {
		have, want string
		ok         bool
	}{
		{"3.27.7", "3.26", true},
		{"3.26.0", "3.26", true},
		{"3.25.9", "3.26", false},
		{"19.38.33130", "14.0", true},
		{"13.2.0", "14.0", false},
		{"", "3.26", false},
		{"3.27.7", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.have+">="+tc.want, func(t *testing.T) {
			assert.Equal(t, tc.ok, versionAtLeast(tc.have, tc.want))
		})
	}
}

func TestProbe(t *testing.T) {
	t.Run("full toolchain", func(t *testing.T) {
		exec := &testutils.FakeExecutor{
			Binaries: map[string]string{
				"cc":    "/usr/bin/cc",
				"cmake": "/usr/bin/cmake",
			},
			RunFunc: func(cmd process.Command) (process.Result, error) {
				if cmd.Path == "/usr/bin/cmake" {
					return process.Result{Stdout: "cmake version 3.27.7"}, nil
				}
				return process.Result{Stdout: "cc (GCC) 13.2.0"}, nil
			},
		}

		state := Probe(context.Background(), exec)
		assert.True(t, state.Ready())
		assert.Equal(t, "13.2.0", state.Compiler.Version)
		assert.Equal(t, "3.27.7", state.CMake.Version)
	})

	t.Run("bare host", func(t *testing.T) {
		exec := &testutils.FakeExecutor{}
		state := Probe(context.Background(), exec)
		assert.False(t, state.Ready())
		assert.False(t, state.Compiler.Found)
		assert.False(t, state.CMake.Found)
	})
}
