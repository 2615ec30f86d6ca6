package response

const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

// Stable machine-readable error codes.
const (
	ErrorCodeBadRequest            = "BAD_REQUEST"
	ErrorCodeUnauthorized          = "UNAUTHORIZED"
	ErrorCodeForbidden             = "FORBIDDEN"
	ErrorCodeNotFound              = "NOT_FOUND"
	ErrorCodeTooManyRequests       = "TOO_MANY_REQUESTS"
	ErrorCodeInternal              = "INTERNAL"
	ErrorCodeInsufficientStock     = "INSUFFICIENT_STOCK"
	ErrorCodeProductNotFound       = "PRODUCT_NOT_FOUND_OR_INACTIVE"
	ErrorCodeVariantNotFound       = "VARIANT_NOT_FOUND_OR_INACTIVE"
	ErrorCodeStockNotAvailable     = "STOCK_NOT_AVAILABLE"
	ErrorCodeIncompleteSelection   = "INCOMPLETE_SELECTION"
	ErrorCodeInvalidTransition     = "INVALID_TRANSITION"
	ErrorCodePaymentAlreadyCaptured = "PAYMENT_ALREADY_CAPTURED"
)
