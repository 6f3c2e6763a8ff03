// Package response renders the uniform JSON envelope every endpoint returns.
package response

import (
	"time"

	"github.com/labstack/echo/v4"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Envelope wraps every API response, success or failure.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Now is the clock used for envelope timestamps.
var Now = time.Now

// Timestamp formats t the way envelopes carry it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Success writes a success envelope. Success envelopes never carry an error.
func Success(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: Timestamp(Now()),
	})
}

// Failure writes an error envelope. detail is the diagnostic string and must
// be empty when running in production.
func Failure(c echo.Context, status int, message string, data any, detail string) error {
	return c.JSON(status, Envelope{
		Success:   false,
		Message:   message,
		Data:      data,
		Error:     detail,
		Timestamp: Timestamp(Now()),
	})
}
