package public

import (
	"errors"
	"net/http"

	"github.com/tiemhang/tiemhang-api/internal/http/response"
	"github.com/tiemhang/tiemhang-api/internal/logger"
	"github.com/tiemhang/tiemhang-api/internal/payment/vnpay"

	"github.com/gin-gonic/gin"
)

// VNPayReturn handles the browser redirect back from the gateway.
func (h *Handler) VNPayReturn(c *gin.Context) {
	result, err := h.PaymentService.VerifyCallback(c.Request.URL.Query())
	if err != nil {
		logger.Warnw("vnpay_return_verify_failed", "error", err)
		response.BadRequest(c, "invalid payment callback")
		return
	}

	if !result.Success {
		order, err := h.PaymentService.FailPayment(result)
		if err != nil {
			respondWithMappedError(c, err, orderCancelErrorRules, "payment update failed")
			return
		}
		response.SuccessWithMsg(c, "payment failed", gin.H{
			"order_no":       order.OrderNo,
			"payment_status": order.PaymentStatus,
			"response_code":  result.ResponseCode,
		})
		return
	}

	order, err := h.PaymentService.ConfirmPayment(result)
	if err != nil {
		respondWithMappedError(c, err, orderCancelErrorRules, "payment confirmation failed")
		return
	}
	response.Success(c, gin.H{
		"order_no":       order.OrderNo,
		"payment_status": order.PaymentStatus,
	})
}

// VNPayIPN handles the server-to-server notification. The gateway expects
// its own response contract: RspCode 00 on success, 97 on a bad signature.
func (h *Handler) VNPayIPN(c *gin.Context) {
	result, err := h.PaymentService.VerifyCallback(c.Request.URL.Query())
	if err != nil {
		logger.Warnw("vnpay_ipn_verify_failed", "error", err)
		c.JSON(http.StatusOK, gin.H{"RspCode": "97", "Message": "Invalid signature"})
		return
	}

	if !result.Success {
		if _, err := h.PaymentService.FailPayment(result); err != nil {
			c.JSON(http.StatusOK, gin.H{"RspCode": "01", "Message": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"RspCode": "00", "Message": "Confirm Success"})
		return
	}

	if _, err := h.PaymentService.ConfirmPayment(result); err != nil {
		if errors.Is(err, vnpay.ErrAmountInvalid) {
			c.JSON(http.StatusOK, gin.H{"RspCode": "04", "Message": "Invalid amount"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"RspCode": "01", "Message": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"RspCode": "00", "Message": "Confirm Success"})
}
