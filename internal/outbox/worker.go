// Package outbox drains pending external-service writes. Jobs are enqueued
// in the same database transaction as the local rows they mirror, so a
// crash between commit and remote call loses nothing; the worker retries
// until the remote side acknowledges.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/repository"
)

const (
	batchSize        = 50
	maxRescheduleGap = 10 * time.Minute
)

// ChatClient is the slice of the chat backend the worker needs.
type ChatClient interface {
	UpsertUser(ctx context.Context, userID, username, name string) error
}

type Worker struct {
	repo     repository.OutboxRepository
	chat     ChatClient
	interval time.Duration

	now func() time.Time
}

func NewWorker(repo repository.OutboxRepository, chat ChatClient, interval time.Duration) *Worker {
	return &Worker{
		repo:     repo,
		chat:     chat,
		interval: interval,
		now:      time.Now,
	}
}

// Run polls for due jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				log.Printf("ERROR [outbox] drain failed: %v", err)
			}
		}
	}
}

// RunOnce drains one batch of due jobs. Each job gets a short in-process
// retry burst; a job that still fails is rescheduled with a delay that
// grows with its persisted attempt count, so backoff survives restarts.
func (w *Worker) RunOnce(ctx context.Context) error {
	jobs, err := w.repo.Due(ctx, w.now(), batchSize)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		attempt := func() error {
			return w.dispatch(ctx, job)
		}
		policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)

		if err := backoff.Retry(attempt, policy); err != nil {
			attempts := job.Attempts + 1
			next := w.now().Add(rescheduleDelay(attempts))
			log.Printf("ERROR [outbox] job %s (%s) attempt %d failed: %v", job.ID, job.Kind, attempts, err)
			if rerr := w.repo.Reschedule(ctx, job.ID, attempts, next); rerr != nil {
				return rerr
			}
			continue
		}

		if err := w.repo.MarkDone(ctx, job.ID, w.now()); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) dispatch(ctx context.Context, job *domain.OutboxJob) error {
	switch job.Kind {
	case domain.OutboxKindChatUpsertUser:
		var payload domain.ChatUpsertUserPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return backoff.Permanent(err)
		}
		return w.chat.UpsertUser(ctx, payload.UserID.String(), payload.Username, payload.Name)
	default:
		return backoff.Permanent(fmt.Errorf("unknown job kind %q", job.Kind))
	}
}

func rescheduleDelay(attempts int) time.Duration {
	delay := 30 * time.Second
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= maxRescheduleGap {
			return maxRescheduleGap
		}
	}
	return delay
}
