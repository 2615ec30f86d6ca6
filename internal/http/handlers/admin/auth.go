package admin

import (
	"github.com/tiemhang/tiemhang-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a staff account.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	adminUser, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		respondWithMappedError(c, err, adminAuthErrorRules, "login failed")
		return
	}
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"admin": gin.H{
			"id":       adminUser.ID,
			"username": adminUser.Username,
			"role":     adminUser.Role,
		},
	})
}

// Profile serves the authenticated staff account.
func (h *Handler) Profile(c *gin.Context) {
	adminID, ok := currentAdminID(c)
	if !ok {
		return
	}
	adminUser, err := h.AdminRepo.GetByID(adminID)
	if err != nil || adminUser == nil {
		response.Unauthorized(c, "unauthorized")
		return
	}
	response.Success(c, gin.H{
		"id":            adminUser.ID,
		"username":      adminUser.Username,
		"role":          adminUser.Role,
		"last_login_at": adminUser.LastLoginAt,
	})
}
