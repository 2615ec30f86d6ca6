package admin

import (
	"errors"

	"github.com/tiemhang/tiemhang-api/internal/http/response"
	"github.com/tiemhang/tiemhang-api/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError binds one service error to its response code pair.
type mappedHandlerError struct {
	target    error
	code      int
	errorCode string
	msg       string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackMsg string) {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		response.ErrorWithData(c, response.CodeBadRequest, response.ErrorCodeInsufficientStock,
			"insufficient stock", gin.H{"available": stockErr.Available})
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.code, rule.errorCode, rule.msg)
			return
		}
	}
	response.Error(c, response.CodeInternal, response.ErrorCodeInternal, fallbackMsg)
}

var orderStatusErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, errorCode: response.ErrorCodeNotFound, msg: "order not found"},
	{target: service.ErrInvalidTransition, code: response.CodeBadRequest, errorCode: response.ErrorCodeInvalidTransition, msg: "status transition not allowed"},
	{target: service.ErrPaymentCaptured, code: response.CodeBadRequest, errorCode: response.ErrorCodePaymentAlreadyCaptured, msg: "payment already captured, refund before cancelling"},
}

var stockMovementErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, errorCode: response.ErrorCodeBadRequest, msg: "quantity is invalid"},
	{target: service.ErrStockNotAvailable, code: response.CodeBadRequest, errorCode: response.ErrorCodeStockNotAvailable, msg: "stock record not available"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, errorCode: response.ErrorCodeProductNotFound, msg: "product not found"},
	{target: service.ErrVariantNotFound, code: response.CodeNotFound, errorCode: response.ErrorCodeVariantNotFound, msg: "variant not found"},
}

var alertErrorRules = []mappedHandlerError{
	{target: service.ErrAlertNotFound, code: response.CodeNotFound, errorCode: response.ErrorCodeNotFound, msg: "stock alert not found"},
}

var adminAuthErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, errorCode: response.ErrorCodeUnauthorized, msg: "invalid credentials"},
	{target: service.ErrAccountDisabled, code: response.CodeForbidden, errorCode: response.ErrorCodeForbidden, msg: "account disabled"},
}
