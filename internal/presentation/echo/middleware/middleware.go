package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func TraceID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		traceID := c.Request().Header.Get("X-Trace-Id")
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Response().Header().Set("X-Trace-Id", traceID)
		c.Set("trace_id", traceID)
		return next(c)
	}
}

func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			traceID, _ := c.Get("trace_id").(string)
			log.Info("http request",
				zap.String("trace_id", traceID),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)
			return err
		}
	}
}

func Recovery(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered", zap.Any("panic", r))
					_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
						"code":     "INTERNAL_ERROR",
						"messages": []string{"an unexpected error occurred"},
					})
				}
			}()
			return next(c)
		}
	}
}
