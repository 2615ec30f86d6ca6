package public

import "github.com/gin-gonic/gin"

// currentUserID reads the authenticated user from the request context, set by
// the auth middleware.
func currentUserID(c *gin.Context) uint {
	value, ok := c.Get("user_id")
	if !ok {
		return 0
	}
	id, ok := value.(uint)
	if !ok {
		return 0
	}
	return id
}
