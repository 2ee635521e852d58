package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/config"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// SubmissionRateLimiter bounds attendance submissions per client IP using a
// fixed one-minute window in Redis, so the limit holds across replicas.
type SubmissionRateLimiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	logger *zap.Logger
}

// NewSubmissionRateLimiter builds the limiter.
func NewSubmissionRateLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *SubmissionRateLimiter {
	return &SubmissionRateLimiter{client: client, cfg: cfg, logger: logger}
}

// Handle enforces the per-IP limit. When Redis is unreachable requests pass
// through; throttling is protection, not a correctness guarantee.
func (l *SubmissionRateLimiter) Handle(c *fiber.Ctx) error {
	if l == nil || !l.cfg.Enabled || l.cfg.SubmissionPerMinute <= 0 || l.client == nil {
		return c.Next()
	}

	ip := c.IP()
	if ip == "" {
		ip = "unknown"
	}
	window := time.Now().Unix() / 60
	key := fmt.Sprintf("ratelimit:submit:%s:%d", ip, window)

	count, err := l.client.Incr(c.Context(), key).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable", zap.Error(err))
		return c.Next()
	}
	if count == 1 {
		l.client.Expire(c.Context(), key, 2*time.Minute)
	}
	if count > int64(l.cfg.SubmissionPerMinute) {
		return apperrors.NewDomainError(apperrors.CodeRateLimited, "too many submissions, slow down", http.StatusTooManyRequests, nil)
	}
	return c.Next()
}
