package public

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
	// Insufficient stock carries the observed availability as detail data.
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

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, errorCode: response.ErrorCodeBadRequest, msg: "cart is empty"},
	{target: service.ErrAddressRequired, code: response.CodeBadRequest, errorCode: response.ErrorCodeBadRequest, msg: "shipping address required"},
	{target: service.ErrPaymentMethod, code: response.CodeBadRequest, errorCode: response.ErrorCodeBadRequest, msg: "unsupported payment method"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, errorCode: response.ErrorCodeBadRequest, msg: "quantity must be positive"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, errorCode: response.ErrorCodeProductNotFound, msg: "product not found or inactive"},
	{target: service.ErrVariantNotFound, code: response.CodeBadRequest, errorCode: response.ErrorCodeVariantNotFound, msg: "variant not found or inactive"},
	{target: service.ErrIncompleteSelection, code: response.CodeBadRequest, errorCode: response.ErrorCodeIncompleteSelection, msg: "variant selection incomplete"},
	{target: service.ErrStockNotAvailable, code: response.CodeBadRequest, errorCode: response.ErrorCodeStockNotAvailable, msg: "stock record not available"},
}

var orderCancelErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, errorCode: response.ErrorCodeNotFound, msg: "order not found"},
	{target: service.ErrInvalidTransition, code: response.CodeBadRequest, errorCode: response.ErrorCodeInvalidTransition, msg: "order can no longer be cancelled"},
	{target: service.ErrPaymentCaptured, code: response.CodeBadRequest, errorCode: response.ErrorCodePaymentAlreadyCaptured, msg: "payment already captured, contact support for a refund"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, errorCode: response.ErrorCodeBadRequest, msg: "quantity must be positive"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, errorCode: response.ErrorCodeProductNotFound, msg: "product not found or inactive"},
	{target: service.ErrVariantNotFound, code: response.CodeBadRequest, errorCode: response.ErrorCodeVariantNotFound, msg: "variant not found or inactive"},
	{target: service.ErrIncompleteSelection, code: response.CodeBadRequest, errorCode: response.ErrorCodeIncompleteSelection, msg: "variant selection incomplete"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, errorCode: response.ErrorCodeNotFound, msg: "cart item not found"},
}

var resolveVariantErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, errorCode: response.ErrorCodeProductNotFound, msg: "product not found or inactive"},
	{target: service.ErrVariantNotFound, code: response.CodeBadRequest, errorCode: response.ErrorCodeVariantNotFound, msg: "no variant matches the selection"},
	{target: service.ErrIncompleteSelection, code: response.CodeBadRequest, errorCode: response.ErrorCodeIncompleteSelection, msg: "variant selection incomplete"},
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, errorCode: response.ErrorCodeUnauthorized, msg: "invalid credentials"},
	{target: service.ErrAccountDisabled, code: response.CodeForbidden, errorCode: response.ErrorCodeForbidden, msg: "account disabled"},
	{target: service.ErrEmailTaken, code: response.CodeConflict, errorCode: response.ErrorCodeBadRequest, msg: "email already registered"},
}
