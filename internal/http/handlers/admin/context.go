package admin

import (
	"github.com/tiemhang/tiemhang-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

func currentAdminID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("admin_id")
	if !exists {
		response.Unauthorized(c, "unauthorized")
		return 0, false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, "unauthorized")
		return 0, false
	}
	return id, true
}
