package server

import (
	stdErrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jwulff/notesum/internal/api"
	"github.com/jwulff/notesum/internal/apperr"
)

// getRequestID reads the id assigned by the RequestID middleware.
func getRequestID(c echo.Context) string {
	if c == nil || c.Response() == nil {
		return ""
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// HandleError logs err and writes the {"detail","code"} body. AppErrors keep
// their status; echo HTTP errors are translated; anything else is a 500.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := toAppError(err)

	fields := []zap.Field{
		zap.String("request_id", getRequestID(c)),
		zap.String("path", c.Path()),
		zap.String("app_code", string(appErr.Code)),
		zap.Error(err),
	}
	if appErr.HTTPCode >= http.StatusInternalServerError {
		logger.Error("http.response.error", fields...)
	} else {
		logger.Warn("http.response.error", fields...)
	}

	return c.JSON(appErr.HTTPCode, api.ErrorResponse{
		Detail: appErr.Detail(),
		Code:   string(appErr.Code),
	})
}

func toAppError(err error) apperr.AppError {
	var appErr apperr.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var he *echo.HTTPError
	if stdErrors.As(err, &he) {
		switch he.Code {
		case http.StatusRequestEntityTooLarge:
			return apperr.PayloadTooLarge()
		case http.StatusNotFound:
			return apperr.NotFound("Route")
		}
		code := apperr.CodeInvalidArgument
		if he.Code >= http.StatusInternalServerError {
			code = apperr.CodeInternal
		}
		return apperr.AppError{
			Raw:      he.Internal,
			HTTPCode: he.Code,
			Code:     code,
			Message:  fmt.Sprint(he.Message),
		}
	}

	return apperr.Internal(err)
}

// errorHandler routes echo's uncaught errors through HandleError.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if hErr := HandleError(logger, c, err); hErr != nil {
			logger.Error("http.response.write_failed", zap.Error(hErr))
		}
	}
}
