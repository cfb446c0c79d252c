package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// httpError is the body of every error response.
type httpError struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Params map[string]string `json:"params,omitempty"`
}

const msgUnexpected = "An unexpected error occurred. Please try again later."

func abort(c *gin.Context, status int, e httpError) {
	c.AbortWithStatusJSON(status, e)
}

func badRequest(c *gin.Context, format string, args ...any) {
	abort(c, http.StatusBadRequest, httpError{Error: fmt.Sprintf(format, args...)})
}

func notFound(c *gin.Context, format string, args ...any) {
	abort(c, http.StatusNotFound, httpError{Error: fmt.Sprintf(format, args...)})
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.log.Error().
		Err(err).
		Str("request-id", requestid.Get(c)).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	abort(c, http.StatusInternalServerError, httpError{Error: msgUnexpected})
}

// pathID parses the named path parameter as a record id.
func pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		badRequest(c, "Invalid input: %q is not a valid ID", raw)
		return 0, false
	}
	return id, true
}
