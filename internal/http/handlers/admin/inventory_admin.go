package admin

import (
	"strconv"
	"strings"

	"github.com/tiemhang/tiemhang-api/internal/http/response"
	"github.com/tiemhang/tiemhang-api/internal/repository"
	"github.com/tiemhang/tiemhang-api/internal/service"

	"github.com/gin-gonic/gin"
)

type stockInRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	VariantID uint   `json:"variant_id"`
	Quantity  int    `json:"quantity" binding:"required"`
	Reason    string `json:"reason"`
	Note      string `json:"note"`
}

// StockIn increases stock for one product or variant line.
func (h *Handler) StockIn(c *gin.Context) {
	var req stockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	adminID, ok := currentAdminID(c)
	if !ok {
		return
	}

	movement, err := h.InventoryService.StockIn(service.StockInInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		ActorID:   adminID,
		Note:      req.Note,
	})
	if err != nil {
		respondWithMappedError(c, err, stockMovementErrorRules, "stock-in failed")
		return
	}
	response.Success(c, movement)
}

type adjustStockRequest struct {
	ProductID   uint   `json:"product_id" binding:"required"`
	VariantID   uint   `json:"variant_id"`
	NewQuantity *int   `json:"new_quantity" binding:"required"`
	Reason      string `json:"reason"`
	Note        string `json:"note"`
}

// AdjustStock sets an absolute stock level for one line.
func (h *Handler) AdjustStock(c *gin.Context) {
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	adminID, ok := currentAdminID(c)
	if !ok {
		return
	}

	movement, err := h.InventoryService.Adjust(service.AdjustInput{
		ProductID:   req.ProductID,
		VariantID:   req.VariantID,
		NewQuantity: *req.NewQuantity,
		Reason:      req.Reason,
		ActorID:     adminID,
		Note:        req.Note,
	})
	if err != nil {
		respondWithMappedError(c, err, stockMovementErrorRules, "stock adjustment failed")
		return
	}
	response.Success(c, movement)
}

// ListMovements serves the stock ledger with filters.
func (h *Handler) ListMovements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		response.BadRequest(c, "created_from must be RFC3339")
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		response.BadRequest(c, "created_to must be RFC3339")
		return
	}

	filter := repository.MovementListFilter{
		Type:        strings.TrimSpace(c.Query("type")),
		Reason:      strings.TrimSpace(c.Query("reason")),
		Reference:   strings.TrimSpace(c.Query("reference")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
		Page:        page,
		PageSize:    pageSize,
	}
	if raw := strings.TrimSpace(c.Query("product_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.ProductID = uint(parsed)
		}
	}
	if raw := strings.TrimSpace(c.Query("variant_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			variantID := uint(parsed)
			filter.VariantID = &variantID
		}
	}

	movements, total, err := h.InventoryService.Movements(filter)
	if err != nil {
		response.Internal(c, "failed to list stock movements")
		return
	}
	response.SuccessWithPage(c, movements, response.NewPagination(page, pageSize, total))
}

// ListAlerts serves low-stock alerts, pending ones first by default.
func (h *Handler) ListAlerts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := repository.AlertListFilter{
		OnlyPending: c.DefaultQuery("only_pending", "true") == "true",
		Page:        page,
		PageSize:    pageSize,
	}
	if raw := strings.TrimSpace(c.Query("product_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.ProductID = uint(parsed)
		}
	}

	alerts, total, err := h.InventoryService.Alerts(filter)
	if err != nil {
		response.Internal(c, "failed to list stock alerts")
		return
	}
	response.SuccessWithPage(c, alerts, response.NewPagination(page, pageSize, total))
}

// MarkAlertNotified flags one alert as handled so it stops surfacing as
// pending until stock recovers and drops again.
func (h *Handler) MarkAlertNotified(c *gin.Context) {
	alertID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || alertID == 0 {
		response.BadRequest(c, "invalid alert id")
		return
	}
	if err := h.InventoryService.MarkAlertNotified(uint(alertID)); err != nil {
		respondWithMappedError(c, err, alertErrorRules, "failed to update alert")
		return
	}
	response.Success(c, nil)
}
