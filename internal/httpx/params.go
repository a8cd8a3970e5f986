package httpx

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseID reads a positive int64 path parameter. On failure it writes a
// 400 and returns false.
func ParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// OptionalID reads an optional positive int64 query parameter.
func OptionalID(c *gin.Context, name string) (*int64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "invalid "+name)
		return nil, false
	}
	return &id, true
}
