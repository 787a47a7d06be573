package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/laiysh/guestlist/internal/dto"
)

// ErrorHandler renders every unhandled error as a {"message": ...} body so
// the form and admin UIs can display it directly.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
