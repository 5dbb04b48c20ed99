package api

import (
	stderrors "errors"
	"net/http"

	"coffee-tournament/internal/common/errors"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeError renders err as the {success:false, error} envelope with the
// status its code maps to.
func (s *Server) writeError(c echo.Context, err error) error {
	stdErr := errors.AsStandardError(err)
	status := errors.HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"path":      c.Path(),
		"errorCode": string(stdErr.Code),
		"status":    status,
		"message":   stdErr.Message,
	}
	if stdErr.Details != "" {
		fields["details"] = stdErr.Details
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields)
	} else {
		s.logger.Warn("request rejected", fields)
	}

	return c.JSON(status, errorResponse{Success: false, Error: stdErr.Message})
}

func badRequest(message string) error {
	return errors.NewInvalidArgumentError(message)
}

// handleHTTPError covers errors echo raises itself (unknown route, wrong
// method, panics caught by Recover) so that every response uses the
// envelope.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if stderrors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
		_ = c.JSON(he.Code, errorResponse{Success: false, Error: msg})
		return
	}

	_ = s.writeError(c, err)
}
