package api

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tvfinder/tvfinder/internal/tvmaze"
)

// timedOut reports whether err came from a context deadline or a transport
// timeout. Both arrive wrapped in a tvmaze.NetworkError, so this is checked
// before ErrNetwork.
func timedOut(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// userMessage is the text shown on the page for a failed action. Details
// stay in the log.
func userMessage(err error) string {
	switch {
	case timedOut(err):
		return "The show catalog took too long to answer."
	case errors.Is(err, tvmaze.ErrMalformedResponse):
		return "The show catalog returned data we could not read."
	case errors.Is(err, tvmaze.ErrNetwork):
		return "The show catalog could not be reached. Try again."
	default:
		return "Something went wrong. Try again."
	}
}

// catalogStatus maps a catalog failure onto an HTTP status.
func catalogStatus(err error) int {
	switch {
	case timedOut(err):
		return http.StatusGatewayTimeout
	case errors.Is(err, tvmaze.ErrMalformedResponse), errors.Is(err, tvmaze.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// catalogError converts a catalog failure into an echo HTTP error.
func catalogError(err error) *echo.HTTPError {
	return echo.NewHTTPError(catalogStatus(err), userMessage(err)).SetInternal(err)
}
