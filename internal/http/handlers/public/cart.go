package public

import (
	"strconv"

	"github.com/tiemhang/tiemhang-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCart serves the caller's cart lines.
func (h *Handler) GetCart(c *gin.Context) {
	items, err := h.CartService.List(currentUserID(c))
	if err != nil {
		response.Internal(c, "failed to load cart")
		return
	}
	response.Success(c, items)
}

type addCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// AddCartItem puts a line into the caller's cart.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	item, err := h.CartService.AddItem(currentUserID(c), req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, "failed to add cart item")
		return
	}
	response.Success(c, item)
}

// RemoveCartItem deletes one line from the caller's cart.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || itemID == 0 {
		response.BadRequest(c, "invalid cart item id")
		return
	}
	if err := h.CartService.RemoveItem(currentUserID(c), uint(itemID)); err != nil {
		respondWithMappedError(c, err, cartErrorRules, "failed to remove cart item")
		return
	}
	response.Success(c, nil)
}
