package public

import (
	"strconv"

	"github.com/tiemhang/tiemhang-api/internal/http/response"
	"github.com/tiemhang/tiemhang-api/internal/service"

	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	ReceiverName    string `json:"receiver_name" binding:"required"`
	ReceiverPhone   string `json:"receiver_phone" binding:"required"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
	DistrictID      int    `json:"district_id"`
	WardCode        string `json:"ward_code"`
	PaymentMethod   string `json:"payment_method" binding:"required"`
	ShippingFee     int64  `json:"shipping_fee"`
	Notes           string `json:"notes"`
}

// CreateOrder turns the caller's cart into an order.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.OrderService.CreateOrder(c.Request.Context(), currentUserID(c), service.CreateOrderInput{
		ReceiverName:    req.ReceiverName,
		ReceiverPhone:   req.ReceiverPhone,
		ShippingAddress: req.ShippingAddress,
		DistrictID:      req.DistrictID,
		WardCode:        req.WardCode,
		PaymentMethod:   req.PaymentMethod,
		ShippingFee:     req.ShippingFee,
		Notes:           req.Notes,
		ClientIP:        c.ClientIP(),
	})
	if err != nil {
		respondWithMappedError(c, err, orderCreateErrorRules, "order creation failed")
		return
	}

	payload := gin.H{"order": result.Order}
	if len(result.Warnings) > 0 {
		payload["warnings"] = result.Warnings
	}
	if result.PaymentURL != "" {
		payload["payment_url"] = result.PaymentURL
	}
	response.Success(c, payload)
}

// ListOrders serves the caller's orders.
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	orders, total, err := h.OrderService.ListUserOrders(currentUserID(c), page, pageSize)
	if err != nil {
		response.Internal(c, "failed to list orders")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder serves one of the caller's orders.
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || orderID == 0 {
		response.BadRequest(c, "invalid order id")
		return
	}
	order, err := h.OrderService.GetUserOrder(uint(orderID), currentUserID(c))
	if err != nil {
		respondWithMappedError(c, err, orderCancelErrorRules, "failed to load order")
		return
	}
	response.Success(c, order)
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels one of the caller's orders through the state machine.
func (h *Handler) CancelOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || orderID == 0 {
		response.BadRequest(c, "invalid order id")
		return
	}
	var req cancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.OrderStatusService.CancelByUser(uint(orderID), currentUserID(c), req.Reason)
	if err != nil {
		respondWithMappedError(c, err, orderCancelErrorRules, "cancellation failed")
		return
	}
	response.Success(c, order)
}
