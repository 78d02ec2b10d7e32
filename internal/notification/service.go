package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Gamenter95/weoo/internal/logger"
	"github.com/Gamenter95/weoo/internal/metrics"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"
	maxTries       = 3
)

// Service queues notifications on Redis and drains them in a background
// worker, so ledger operations never wait on notification persistence or
// webhook delivery.
type Service struct {
	redis *redis.Client
	repo  Repository
}

func New(client *redis.Client, repo Repository) *Service {
	return &Service{redis: client, repo: repo}
}

func (s *Service) Emit(ctx context.Context, job Job) error {
	job.Tries = 0
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("failed to queue notification for %s: %v", job.UserID, err)
		return err
	}

	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("bad notification data: %v", err)
		return
	}

	job.Tries++
	if err := s.deliver(ctx, job); err != nil {
		logger.Errorf("failed to deliver notification to %s: %v", job.UserID, err)
		metrics.RecordNotification(job.Type, "error")

		if job.Tries < maxTries {
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
		} else {
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordNotification(job.Type, "delivered")
}

func (s *Service) deliver(ctx context.Context, job Job) error {
	if _, err := s.repo.Create(ctx, job.UserID, job.Type, job.Title, job.Message); err != nil {
		return err
	}

	if job.Webhook != nil && job.Webhook.URL != "" {
		if err := SendWebhook(job.Webhook.URL, job.Webhook.Payload); err != nil {
			// The notification row is already persisted; webhook
			// delivery is best effort.
			logger.Warnf("webhook to %s failed: %v", job.Webhook.URL, err)
		}
	}

	return nil
}

func (s *Service) saveFailed(job Job, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("notification for %s moved to failed queue", job.UserID)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.NotificationQueueLength.Set(float64(length))
	return length
}
