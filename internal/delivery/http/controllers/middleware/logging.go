package middleware

import (
	"JapaneseShikhi/pkg/logger"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

func LoggingMiddleware(logger logger.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		path := c.Request.URL.Path
		rawQuery := c.Request.URL.RawQuery
		if rawQuery != "" {
			path = fmt.Sprintf("%s?%s", path, rawQuery)
		}
		status := c.Writer.Status()

		msg := fmt.Sprintf("%s %s", method, path)
		args := []any{
			"status", status,
			"latency", latency,
			"client_ip", clientIP,
		}
		if clientID, ok := c.Get(ClientIDCtx); ok {
			args = append(args, "client_id", clientID)
		}

		switch {
		case status >= 500:
			logger.Error(msg, args...)
		case status >= 400:
			logger.Warn(msg, args...)
		default:
			logger.Info(msg, args...)
		}

		for _, ginErr := range c.Errors {
			logger.ErrorErr("HTTP request error", ginErr.Err,
				"status", status,
				"method", method,
				"path", path,
			)
		}
	}
}
