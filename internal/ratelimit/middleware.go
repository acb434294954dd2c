package ratelimit

import (
	"context"
	"io"
	"math"
	"net/http"
	"path"
	"strconv"

	"revenue-server/internal/apierrors"
	"revenue-server/internal/observability"

	"github.com/gin-gonic/gin"
)

const maxThrottledBody = 1 << 20

// ThrottleRecorder keeps a copy of a delivery the limiter refused
type ThrottleRecorder interface {
	RecordThrottled(ctx context.Context, source string, rawPayload []byte)
}

// Middleware limits requests per client IP and sets the X-RateLimit headers.
// Refused deliveries are handed to recorder when it is not nil.
func (s *Service) Middleware(recorder ThrottleRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		clientIP := observability.GetRealClientIP(c)
		result := s.Check(ctx, clientIP)

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds()))))
			ctx = observability.WithFields(ctx,
				observability.Field{Key: "limit", Value: result.Limit},
				observability.Field{Key: "retry_after_ms", Value: result.RetryAfter.Milliseconds()},
			)
			s.logger.Warn(ctx, "webhook rate limit exceeded")
			if recorder != nil {
				s.recordThrottled(ctx, c, recorder)
			}
			apierrors.TooManyRequests(c, "Rate limit exceeded")
			return
		}

		c.Next()
	}
}

func (s *Service) recordThrottled(ctx context.Context, c *gin.Context, recorder ThrottleRecorder) {
	if c.Request.Body == nil {
		recorder.RecordThrottled(ctx, routeSource(c), nil)
		return
	}
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxThrottledBody))
	if err != nil {
		s.logger.WarnWithError(ctx, "failed to read throttled webhook body", err)
		return
	}
	recorder.RecordThrottled(ctx, routeSource(c), raw)
}

// routeSource names the webhook by the last path segment of its route
func routeSource(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return path.Base(route)
}
