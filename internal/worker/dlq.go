package worker

// dlq.go — Dead Letter Queue
// Jobs that fail processing are moved here for inspection. A background cron
// re-queues entries that have attempts left, so a transient SMTP outage does
// not silently drop alerts. Uses a Redis list per source queue: dlq:{queue}.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DLQPrefix = "dlq:"

	// MaxJobAttempts is the cap across original processing plus requeues.
	MaxJobAttempts = 3

	requeueTickInterval = time.Minute
	requeueBatchSize    = 20
)

// DLQEntry wraps a failed job with metadata for debugging.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // ISO 8601
	Attempts      int             `json:"attempts"`
}

// SendToDLQ pushes a failed job to the dead letter queue.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}

	dlqKey := DLQPrefix + queue
	if err := rdb.LPush(ctx, dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push to DLQ")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength returns the number of entries in a DLQ for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// StartDLQRequeue launches a background goroutine that periodically moves
// DLQ entries with attempts remaining back onto their original queue.
// Entries at MaxJobAttempts stay in the DLQ for manual inspection.
func StartDLQRequeue(ctx context.Context, rdb *redis.Client) {
	go func() {
		ticker := time.NewTicker(requeueTickInterval)
		defer ticker.Stop()

		log.Info().Msg("dlq_requeue: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("dlq_requeue: shutting down")
				return
			case <-ticker.C:
				requeueBatch(ctx, rdb, QueueAlertasStock)
			}
		}
	}()
}

func requeueBatch(ctx context.Context, rdb *redis.Client, queue string) {
	dlqKey := DLQPrefix + queue
	for i := 0; i < requeueBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty or redis unavailable
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq_requeue: malformed entry dropped")
			continue
		}
		if entry.Attempts >= MaxJobAttempts {
			// Out of attempts — park it back for manual inspection.
			_ = rdb.LPush(ctx, dlqKey, raw).Err()
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Attempts: entry.Attempts}
		encoded, err := json.Marshal(job)
		if err != nil {
			continue
		}
		if err := rdb.LPush(ctx, entry.OriginalQueue, encoded).Err(); err != nil {
			log.Error().Err(err).Msg("dlq_requeue: failed to requeue, returning to DLQ")
			_ = rdb.LPush(ctx, dlqKey, raw).Err()
			return
		}
		log.Info().
			Str("queue", entry.OriginalQueue).
			Str("job_type", entry.JobType).
			Int("attempts", entry.Attempts).
			Msg("dlq_requeue: job requeued")
	}
}
