package public

import (
	"strconv"

	"github.com/tiemhang/tiemhang-api/internal/http/response"
	"github.com/tiemhang/tiemhang-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ListProducts serves the active catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	keyword := c.Query("keyword")

	products, total, err := h.ProductService.List(keyword, page, pageSize)
	if err != nil {
		response.Internal(c, "failed to list products")
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct serves one product with its active variants.
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.ProductService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, resolveVariantErrorRules, "failed to load product")
		return
	}
	response.Success(c, product)
}

type resolveVariantRequest struct {
	Selection models.AttributeSet `json:"selection"`
}

// ResolveVariant previews the variant, price and stock for an attribute
// selection.
func (h *Handler) ResolveVariant(c *gin.Context) {
	product, err := h.ProductService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, resolveVariantErrorRules, "failed to load product")
		return
	}
	var req resolveVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	preview, err := h.ProductService.ResolveVariant(product.ID, req.Selection)
	if err != nil {
		respondWithMappedError(c, err, resolveVariantErrorRules, "variant resolution failed")
		return
	}

	payload := gin.H{
		"unit_price": preview.UnitPrice,
		"stock":      preview.Stock,
	}
	if preview.Variant != nil {
		payload["variant"] = preview.Variant
	}
	if len(preview.Warnings) > 0 {
		payload["warnings"] = preview.Warnings
	}
	response.Success(c, payload)
}
