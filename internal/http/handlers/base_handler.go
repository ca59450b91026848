// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"campusnav/internal/maps"
	"campusnav/internal/modules/catalog"
	"campusnav/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeStoreFailure reports a persistence operation that returned false.
func writeStoreFailure(c *gin.Context) {
	writeError(c, http.StatusInternalServerError, "storage unavailable")
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, maps.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnknownLocation),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, maps.ErrNoRoute):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, maps.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, maps.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err with its mapped status. Upstream details stay
// in the logs; clients only see the sentinel text.
func writeServiceError(c *gin.Context, err error) {
	status := statusFor(err)
	switch {
	case status == http.StatusInternalServerError:
		writeError(c, status, "internal error")
	case errors.Is(err, maps.ErrNotConfigured):
		writeError(c, status, maps.ErrNotConfigured.Error())
	case errors.Is(err, maps.ErrUpstream):
		writeError(c, status, maps.ErrUpstream.Error())
	default:
		writeError(c, status, err.Error())
	}
}

// queryFloat parses an optional float query parameter. ok is false only when
// the parameter is present but malformed or not finite.
func queryFloat(c *gin.Context, name string) (v *float64, ok bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}
