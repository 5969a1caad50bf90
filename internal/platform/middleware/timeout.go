package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// TimeoutMessage is the body message of a 504 answer.
const TimeoutMessage = "request processing exceeded the allowed time limit"

// RequestTimeout puts a deadline on the request context. The handler keeps
// running on the request goroutine, so Recovery still sees its panics;
// handlers that honour ctx (the classifier checks it before scoring) stop
// early and their context.DeadlineExceeded becomes a 504.
//
// A non-positive timeout disables the middleware.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	if timeout <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{
		Timeout:      timeout,
		ErrorHandler: gatewayTimeout,
	})
}

func gatewayTimeout(err error, c echo.Context) error {
	if !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if c.Response().Committed {
		return nil
	}
	return &echo.HTTPError{
		Code:     http.StatusGatewayTimeout,
		Message:  TimeoutMessage,
		Internal: err,
	}
}
