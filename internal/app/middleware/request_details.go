package middleware

import (
	"slices"
	"strings"
	"time"

	"easyloan/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

var sensitiveHeaders = []string{"Authorization", "Cookie", "Set-Cookie"}

func extractHeaders(headers map[string][]string) map[string]string {
	result := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			continue
		}
		if slices.Contains(sensitiveHeaders, key) {
			result[key] = "*****"
			continue
		}
		result[key] = values[0]
	}
	return result
}

// AttachRequestDetails tags the request context with a request id and logs
// one line per request once the handler has run.
func AttachRequestDetails() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		logger.CtxInfo(c.Request.Context(), "request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("operation", extractFirstTwoSegments(c.HandlerName())),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Any("headers", extractHeaders(c.Request.Header)),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
		)
	}
}

func extractFirstTwoSegments(handlerName string) string {
	segments := strings.Split(handlerName, "/")
	if len(segments) > 2 {
		return strings.Join(segments[:2], "/")
	}
	return handlerName
}
