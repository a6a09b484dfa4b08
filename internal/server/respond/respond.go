// Package respond writes the worker's JSON failure shape.
package respond

import (
	"github.com/gin-gonic/gin"

	"github.com/go-taken/ocr-worker/internal/ocrerr"
)

// Failure aborts the request with the status of err's kind and the
// {requestId, error{code, message}} body.
func Failure(c *gin.Context, requestID string, err error) {
	e := ocrerr.From(err)
	c.AbortWithStatusJSON(e.Status(), ocrerr.NewPayload(requestID, e))
}
