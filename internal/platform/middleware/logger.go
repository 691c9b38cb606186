package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opdhq/opd/internal/platform/auth"
)

// Logger emits one structured line per request. When the session middleware
// has resolved a doctor, the line carries doctor_id so the clinic's audit
// trail can be reconstructed from the logs alone.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}
			req := c.Request()
			if doctorID := auth.DoctorIDFromContext(req.Context()); doctorID != 0 {
				evt = evt.Int64("doctor_id", doctorID)
			}

			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return err
		}
	}
}
