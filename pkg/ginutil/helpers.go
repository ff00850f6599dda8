package ginutil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamID extracts a positive int64 id from path parameters.
// ok is false when the value is missing, malformed or not positive.
func ParamID(c *gin.Context, key string) (id int64, ok bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
