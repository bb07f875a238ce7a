package errutil

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

// Handle logs the error with a message and returns the error unchanged.
// Best-effort side effects call this and discard the return value so the
// failure never masks the primary transition.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	capture(err)

	return err
}

// LogHTTP logs an HTTP-bound error and reports server-side failures to
// Sentry, without writing the response. Handlers that render their own
// error body call this before responding.
func LogHTTP(ctx context.Context, err error, statusCode int) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	if statusCode >= http.StatusInternalServerError {
		capture(err)
	}
}

// HandleHTTP logs the error and writes a plain-text HTTP error response.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	LogHTTP(ctx, err, statusCode)
	http.Error(w, err.Error(), statusCode)
}

// capture reports the error to Sentry when a DSN was configured. With no
// Sentry client initialized this is a no-op.
func capture(err error) {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.CaptureException(err)
	}
}

// Flush drains any pending Sentry events before shutdown.
func Flush() {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.Flush(2 * time.Second)
	}
}
