package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Gamenter95/weoo/internal/logger"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	idempotencyKeyTTL    = 24 * time.Hour
)

type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key instead of executing the payment twice. Requests
// without the header pass through untouched.
func IdempotencyMiddleware(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		// Scope the key to the API token so two callers cannot
		// collide on a generic key like "1".
		cacheKey := "idem:" + c.Query("token") + ":" + key

		if cached, err := load(c.Request.Context(), rdb, cacheKey); err == nil {
			c.Header("X-Idempotent-Replay", "true")
			c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
			c.Abort()
			return
		} else if !errors.Is(err, redis.Nil) {
			logger.Errorf("idempotency lookup: %v", err)
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		// Only successful outcomes are replayable; a failed attempt
		// may legitimately be retried.
		if c.Writer.Status() < http.StatusOK || c.Writer.Status() >= http.StatusMultipleChoices {
			return
		}

		if err := store(c.Request.Context(), rdb, cacheKey, cachedResponse{
			Status: c.Writer.Status(),
			Body:   recorder.buf.Bytes(),
		}); err != nil {
			logger.Errorf("idempotency store: %v", err)
		}
	}
}

func load(ctx context.Context, rdb *redis.Client, key string) (*cachedResponse, error) {
	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

func store(ctx context.Context, rdb *redis.Client, key string, resp cachedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, data, idempotencyKeyTTL).Err()
}
