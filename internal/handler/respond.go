package handler

import "github.com/labstack/echo/v4"

// Error codes surfaced in the `code` field of failure envelopes so
// clients can branch programmatically while still showing `message`.
const (
	CodeInvalidRequest = "invalid_request"
	CodeUnauthorized   = "unauthorized"
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeInternal       = "internal"
)

// respondOK writes the success envelope. Message and data are optional.
func respondOK(c echo.Context, status int, message string, data interface{}) error {
	body := echo.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

// respondErr writes the failure envelope: {success:false, code, message}.
func respondErr(c echo.Context, status int, code, message string) error {
	return c.JSON(status, echo.Map{"success": false, "code": code, "message": message})
}
