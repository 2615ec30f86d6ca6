package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/tiemhang/tiemhang-api/internal/http/response"
	"github.com/tiemhang/tiemhang-api/internal/repository"
	"github.com/tiemhang/tiemhang-api/internal/service"

	"github.com/gin-gonic/gin"
)

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListOrders serves the filterable order list.
func (h *Handler) ListOrders(c *gin.Context) {
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
	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			userID = uint(parsed)
		}
	}

	orders, total, err := h.OrderService.AdminListOrders(repository.OrderListFilter{
		UserID:        userID,
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		PaymentMethod: strings.TrimSpace(c.Query("payment_method")),
		OrderNo:       strings.TrimSpace(c.Query("order_no")),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		response.Internal(c, "failed to list orders")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder serves one order with its items.
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || orderID == 0 {
		response.BadRequest(c, "invalid order id")
		return
	}
	order, err := h.OrderService.GetOrder(uint(orderID))
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, "failed to load order")
		return
	}
	response.Success(c, order)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateOrderStatus moves an order to an explicit target status.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || orderID == 0 {
		response.BadRequest(c, "invalid order id")
		return
	}
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if !service.ValidOrderStatus(req.Status) {
		response.BadRequest(c, "unknown order status")
		return
	}
	adminID, ok := currentAdminID(c)
	if !ok {
		return
	}

	order, err := h.OrderStatusService.SetStatus(uint(orderID), req.Status, req.Notes, adminID)
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, "status update failed")
		return
	}
	response.Success(c, order)
}

// AdvanceOrder moves an order one step forward along the fulfilment chain.
func (h *Handler) AdvanceOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || orderID == 0 {
		response.BadRequest(c, "invalid order id")
		return
	}
	adminID, ok := currentAdminID(c)
	if !ok {
		return
	}

	order, err := h.OrderStatusService.Advance(uint(orderID), adminID)
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, "status update failed")
		return
	}
	response.Success(c, order)
}
