package devserver

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	errUnauthorized   = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errBadCredentials = echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	errForbidden      = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errNotFound       = echo.NewHTTPError(http.StatusNotFound, "not found")
)

func errBadRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

func isNoRows(err error) bool {
	return errors.Cause(err) == sql.ErrNoRows
}

// newHTTPErrorHandler maps errors to {"message": ...} bodies. Missing rows are
// 404s; anything unrecognised is logged and answered with a 500.
func newHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		default:
			if isNoRows(err) {
				code, message = errNotFound.Code, errNotFound.Message.(string)
				break
			}
			code = http.StatusInternalServerError
			message = http.StatusText(code)
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
		}

		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, echo.Map{"message": message})
		}
		if err != nil {
			log.Warn("writing error response", zap.Error(err))
		}
	}
}
