package toolchain

import (
	"os"
	"runtime"
)

// isElevated reports whether the process can perform privileged installs.
// The original scripts assumed elevation and failed half way through when
// it was missing; checking up front turns that into a clear first-step
// error instead of a silent partial install.
func isElevated() bool {
	if runtime.GOOS == "windows" {
		// Opening a raw device handle succeeds only for administrators.
		f, err := os.Open(`\\.\PHYSICALDRIVE0`)
		if err != nil {
			return false
		}
		_ = f.Close()
		return true
	}
	return os.Geteuid() == 0
}
