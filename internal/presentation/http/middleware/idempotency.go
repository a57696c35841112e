package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/clock"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/repository"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/response"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from a stored key
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo  repository.IdempotencyRepository
	Clock clock.Clock
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyRequired replays the stored response of a POST already processed
// for the same key and operator. The key is reserved before the handler runs,
// so a concurrent duplicate gets 409 instead of a second execution. Requests
// without a key are rejected and only successful responses are stored.
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	if config.Clock == nil {
		config.Clock = clock.NewSystem()
	}
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			response.BadRequest(c, "Idempotency-Key header is required for this request")
			c.Abort()
			return
		}

		staffID := c.GetString("staff_id")
		if staffID == "" {
			response.Unauthorized(c, "Operator not authenticated")
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		now := config.Clock.Now()
		ikey := &entity.IdempotencyKey{
			Key:       idempotencyKey,
			StaffID:   staffID,
			Endpoint:  c.Request.Method + " " + c.FullPath(),
			ExpiresAt: now.Add(IdempotencyKeyTTL),
		}
		reserved, err := config.Repo.Reserve(ctx, ikey, now)
		if err != nil {
			slog.Error("failed to reserve idempotency key", "key", idempotencyKey, "error", err)
			response.ErrorWithCode(c, http.StatusInternalServerError, "Failed to check idempotency key")
			c.Abort()
			return
		}
		if !reserved {
			replayIdempotent(c, config.Repo, idempotencyKey, staffID)
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// the handler may have outlived the request context
		storeCtx := context.WithoutCancel(ctx)
		if status := c.Writer.Status(); status >= 200 && status < 300 {
			if err := config.Repo.Complete(storeCtx, ikey.ID, status, blw.body.String()); err != nil {
				slog.Warn("failed to store idempotency key", "key", idempotencyKey, "error", err)
			}
			return
		}
		if err := config.Repo.Release(storeCtx, ikey.ID); err != nil {
			slog.Warn("failed to release idempotency key", "key", idempotencyKey, "error", err)
		}
	}
}

// replayIdempotent answers a request whose key is already held: with the
// stored response once the first request finished, or 409 while it runs.
func replayIdempotent(c *gin.Context, repo repository.IdempotencyRepository, key, staffID string) {
	defer c.Abort()

	existing, err := repo.GetByKey(c.Request.Context(), key, staffID)
	if err != nil {
		slog.Error("failed to check idempotency key", "key", key, "error", err)
		response.ErrorWithCode(c, http.StatusInternalServerError, "Failed to check idempotency key")
		return
	}
	if existing == nil || existing.IsPending() {
		response.ErrorWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is still being processed")
		return
	}

	c.Header(IdempotencyReplayedHeader, "true")
	c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
}

// PurgeIdempotencyKeys deletes expired keys every interval until ctx is done
func PurgeIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, clk clock.Clock, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx, clk.Now()); err != nil {
				slog.Warn("failed to purge idempotency keys", "error", err)
			}
		}
	}
}
