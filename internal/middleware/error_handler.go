package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// NewErrorHandler builds the central echo error handler. Every failure leaves
// the service as a {success:false, message} envelope — never a raw fault
// page. Cause chains from unexpected errors are echoed back only in
// development; production callers get the generic message.
func NewErrorHandler(verbose bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "something went wrong, please retry"

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		} else if verbose {
			msg = fmt.Sprintf("unexpected error: %v", err)
		}

		_ = c.JSON(code, map[string]any{"success": false, "message": msg})
	}
}
