package process

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electionlab/groundwork/internal/logging"
)

func TestResultTail(t *testing.T) {
	res := Result{Stdout: "one\ntwo\nthree", Stderr: "err"}

	assert.Equal(t, "three\nerr", res.Tail(2))
	assert.Equal(t, "one\ntwo\nthree\nerr", res.Tail(10))
	assert.Equal(t, "", Result{}.Tail(3))
}

func TestFlattenEnvSorted(t *testing.T) {
	flat := flattenEnv(map[string]string{
		"FORCE_CMAKE": "1",
		"CMAKE_ARGS":  "-DLLAMA_CUBLAS=off",
	})

	assert.Equal(t, []string{"CMAKE_ARGS=-DLLAMA_CUBLAS=off", "FORCE_CMAKE=1"}, flat)
	assert.Nil(t, flattenEnv(nil))
}

// Streaming fans both pipes into one lineWriter, and os/exec copies
// stdout and stderr from separate goroutines.
func TestLineWriterConcurrentWrites(t *testing.T) {
	w := &lineWriter{logger: logging.NewNop(), name: "pip"}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				_, _ = w.Write([]byte("building\n"))
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, w.buf.Len())
}

func TestRunStreamInterleavedOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	r := NewRunner(logging.NewNop())
	res, err := r.Run(context.Background(), Command{
		Path:   "sh",
		Args:   []string{"-c", "for i in $(seq 1 500); do echo out; echo err 1>&2; done"},
		Stream: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 500, strings.Count(res.Stdout, "out"))
	assert.Equal(t, 500, strings.Count(res.Stderr, "err"))
}

func TestLineWriterBuffersPartialLines(t *testing.T) {
	w := &lineWriter{logger: logging.NewNop(), name: "pip"}

	n, err := w.Write([]byte("building whe"))
	assert.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, "building whe", w.buf.String())

	_, err = w.Write([]byte("el\ndone\n"))
	assert.NoError(t, err)
	assert.Zero(t, w.buf.Len())
}
