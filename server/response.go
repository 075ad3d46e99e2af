package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	attribution "github.com/sonwamoh/perfomance-attribution"
)

type apiResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
	})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
	})
}

// failWith answers with the status matching err.
func failWith(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		c.Error(err)
	}
	fail(c, status, err.Error())
}

// badRequest is an invalid request body or query.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func statusOf(err error) int {
	var (
		weight      *attribution.InvalidWeightError
		unavailable *attribution.PriceUnavailableError
		empty       *attribution.EmptyResultError
		bad         badRequest
	)
	switch {
	case errors.As(err, &weight), errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusNotFound
	case errors.As(err, &empty):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
