package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/electionlab/groundwork/internal/journal"
	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/electionlab/groundwork/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileJournal_Contract(t *testing.T) {
	ports.RunJournalContract(t, journal.NewFileJournal(t.TempDir()))
}

func TestMemoryJournal_Contract(t *testing.T) {
	ports.RunJournalContract(t, journal.NewMemoryJournal())
}

func TestRedisJournal_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	ports.RunJournalContract(t, journal.NewRedisJournal(client))
}

func TestRedisJournal_LatestDropsExpiredEntry(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	j := journal.NewRedisJournal(client)
	ctx := context.Background()

	require.NoError(t, j.Save(ctx, &domain.RunReport{ID: "expired-run", StartedAt: time.Now()}))

	// Expire the report while its index entry survives.
	require.NoError(t, client.Del(ctx, "groundwork:run:expired-run").Err())

	_, err = j.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	// The stale index entry is gone; the next Latest short-circuits.
	n, err := client.ZCard(ctx, "groundwork:run:index").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileJournal_List(t *testing.T) {
	j := journal.NewFileJournal(t.TempDir())
	ctx := context.Background()

	require.NoError(t, j.Save(ctx, &domain.RunReport{ID: "20240101-000000-aa", StartedAt: time.Now().Add(-time.Hour)}))
	require.NoError(t, j.Save(ctx, &domain.RunReport{ID: "20240102-000000-bb", StartedAt: time.Now()}))

	ids, err := j.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240102-000000-bb", "20240101-000000-aa"}, ids)
}

func TestFileLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("acquire and release", func(t *testing.T) {
		l := journal.NewFileLocker(t.TempDir())

		unlock, err := l.Lock(ctx, "host", time.Minute)
		require.NoError(t, err)

		// Second acquisition fails while held.
		_, err = l.Lock(ctx, "host", time.Minute)
		assert.ErrorIs(t, err, domain.ErrLockHeld)

		require.NoError(t, unlock(ctx))

		unlock2, err := l.Lock(ctx, "host", time.Minute)
		require.NoError(t, err)
		_ = unlock2(ctx)
	})

	t.Run("stale lock is broken", func(t *testing.T) {
		dir := t.TempDir()
		l := journal.NewFileLocker(dir)

		_, err := l.Lock(ctx, "host", time.Minute)
		require.NoError(t, err)

		// A TTL shorter than the lock's age simulates a crashed run.
		time.Sleep(20 * time.Millisecond)
		unlock, err := l.Lock(ctx, "host", 10*time.Millisecond)
		require.NoError(t, err, "stale lock should be broken")
		_ = unlock(ctx)
	})
}

func TestRedisLocker(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	l := journal.NewRedisLocker(client, "groundwork:")
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "host", time.Minute)
	require.NoError(t, err)

	_, err = l.Lock(ctx, "host", time.Minute)
	assert.ErrorIs(t, err, domain.ErrLockHeld)

	require.NoError(t, unlock(ctx))

	unlock2, err := l.Lock(ctx, "host", time.Minute)
	require.NoError(t, err)
	_ = unlock2(ctx)
}
