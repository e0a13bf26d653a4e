package fetch_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/electionlab/groundwork/internal/fetch"
	"github.com/electionlab/groundwork/internal/logging"
	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	payload := []byte("quantized model bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := fetch.New(srv.Client(), logging.NewNop())
	dest := filepath.Join(t.TempDir(), "models", "model.gguf")

	written, err := f.Download(context.Background(), srv.URL, dest, fetch.Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), written)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// No leftover partial file.
	_, err = os.Stat(dest + ".part")
	assert.True(t, os.IsNotExist(err))
}

func TestDownload_SkipIfExists(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "model.gguf")
	require.NoError(t, os.WriteFile(dest, []byte("already here"), 0644))

	f := fetch.New(srv.Client(), logging.NewNop())
	written, err := f.Download(context.Background(), srv.URL, dest, fetch.Options{SkipIfExists: true})

	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Zero(t, requests, "existing artifact must not trigger a request")
}

func TestDownload_ChecksumVerified(t *testing.T) {
	payload := []byte("installer binary")
	sum := sha256.Sum256(payload)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := fetch.New(srv.Client(), logging.NewNop())

	t.Run("match", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "installer.exe")
		_, err := f.Download(context.Background(), srv.URL, dest, fetch.Options{
			SHA256: hex.EncodeToString(sum[:]),
		})
		require.NoError(t, err)
	})

	t.Run("mismatch removes artifact", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "installer.exe")
		_, err := f.Download(context.Background(), srv.URL, dest, fetch.Options{
			SHA256: "deadbeef",
		})
		require.ErrorIs(t, err, domain.ErrChecksumMismatch)

		_, statErr := os.Stat(dest)
		assert.True(t, os.IsNotExist(statErr), "corrupt download must not reach the final path")
	})
}

func TestDownload_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := fetch.New(srv.Client(), logging.NewNop())
	_, err := f.Download(context.Background(), srv.URL, filepath.Join(t.TempDir(), "x"), fetch.Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestDownload_ProgressReported(t *testing.T) {
	payload := make([]byte, 100*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	var lastDone, lastTotal int64
	f := fetch.New(srv.Client(), logging.NewNop())
	_, err := f.Download(context.Background(), srv.URL, filepath.Join(t.TempDir(), "big"), fetch.Options{
		Progress: func(done, total int64) {
			lastDone, lastTotal = done, total
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), lastDone)
	assert.Equal(t, int64(len(payload)), lastTotal)
}
