// Package response writes the JSON envelope every endpoint answers with.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response. Data is set on success and
// Error on failure.
type Envelope[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data,omitempty"`
	Error     any       `json:"error,omitempty"`
}

func envelope[T any](c *gin.Context, status, fallback int, message string) Envelope[T] {
	if status == 0 {
		status = fallback
	}
	return Envelope[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: c.GetString("request_id"),
		Success:   status < http.StatusBadRequest,
		Message:   message,
	}
}

// OK writes data with the given status, 200 when zero.
func OK[T any](c *gin.Context, status int, data T, message string) {
	e := envelope[T](c, status, http.StatusOK, message)
	e.Data = data
	c.JSON(e.Status, e)
}

// Fail aborts the chain with an error envelope, 400 when status is zero.
// details is rendered as the error field.
func Fail(c *gin.Context, status int, message string, details any) {
	e := envelope[any](c, status, http.StatusBadRequest, message)
	e.Error = details
	c.AbortWithStatusJSON(e.Status, e)
}
