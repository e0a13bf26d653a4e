package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/electionlab/groundwork/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// RedisJournal implements ports.RunJournal on Redis. Useful for shared lab
// machines where an operator wants run history without shell access to the
// host's filesystem.
type RedisJournal struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.RunJournal = (*RedisJournal)(nil)

// RedisOption configures a RedisJournal.
type RedisOption func(*RedisJournal)

// WithTTL sets an expiration on stored reports.
func WithTTL(ttl time.Duration) RedisOption {
	return func(j *RedisJournal) { j.ttl = ttl }
}

// WithPrefix sets the key prefix for reports.
func WithPrefix(prefix string) RedisOption {
	return func(j *RedisJournal) { j.prefix = prefix }
}

// NewRedisJournal creates a journal from an existing client.
func NewRedisJournal(client *backend.Client, opts ...RedisOption) *RedisJournal {
	j := &RedisJournal{
		client: client,
		prefix: "groundwork:run:",
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *RedisJournal) key(runID string) string {
	return j.prefix + runID
}

func (j *RedisJournal) indexKey() string {
	return j.prefix + "index"
}

// Save persists the report and indexes it by start time for Latest.
func (j *RedisJournal) Save(ctx context.Context, report *domain.RunReport) error {
	if report.ID == "" {
		return fmt.Errorf("report ID cannot be empty")
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	pipe := j.client.TxPipeline()
	pipe.Set(ctx, j.key(report.ID), data, j.ttl)
	pipe.ZAdd(ctx, j.indexKey(), backend.Z{
		Score:  float64(report.StartedAt.UnixNano()),
		Member: report.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis error saving report: %w", err)
	}
	return nil
}

// Load retrieves a report by run ID.
func (j *RedisJournal) Load(ctx context.Context, runID string) (*domain.RunReport, error) {
	data, err := j.client.Get(ctx, j.key(runID)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis error loading report: %w", err)
	}

	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// Latest returns the run with the highest start-time score.
func (j *RedisJournal) Latest(ctx context.Context) (*domain.RunReport, error) {
	ids, err := j.client.ZRevRange(ctx, j.indexKey(), 0, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error reading index: %w", err)
	}
	if len(ids) == 0 {
		return nil, domain.ErrRunNotFound
	}

	report, err := j.Load(ctx, ids[0])
	if errors.Is(err, domain.ErrRunNotFound) {
		// Report expired but the index entry survived; drop it.
		_ = j.client.ZRem(ctx, j.indexKey(), ids[0]).Err()
		return nil, domain.ErrRunNotFound
	}
	return report, err
}

// Delete removes a report and its index entry. Idempotent.
func (j *RedisJournal) Delete(ctx context.Context, runID string) error {
	pipe := j.client.TxPipeline()
	pipe.Del(ctx, j.key(runID))
	pipe.ZRem(ctx, j.indexKey(), runID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis error deleting report: %w", err)
	}
	return nil
}
