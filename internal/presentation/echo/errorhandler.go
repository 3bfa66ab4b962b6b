package echo

import (
	"net/http"

	echofw "github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ololchike/tourpay/internal/domain"
)

func CustomHTTPErrorHandler(log *zap.Logger) echofw.HTTPErrorHandler {
	return func(err error, c echofw.Context) {
		if c.Response().Committed {
			return
		}

		if appErr, ok := err.(*domain.AppError); ok {
			_ = c.JSON(appErr.HTTPCode, map[string]interface{}{
				"code":     appErr.Code,
				"messages": appErr.Messages,
			})
			return
		}

		if echoErr, ok := err.(*echofw.HTTPError); ok {
			_ = c.JSON(echoErr.Code, map[string]interface{}{
				"code":     "HTTP_ERROR",
				"messages": []string{http.StatusText(echoErr.Code)},
			})
			return
		}

		log.Error("unhandled error", zap.Error(err))
		_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"code":     "INTERNAL_ERROR",
			"messages": []string{"an internal error occurred"},
		})
	}
}
