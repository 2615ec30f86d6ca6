package service

import (
	"context"
	"net/url"
	"time"

	"github.com/tiemhang/tiemhang-api/internal/cache"
	"github.com/tiemhang/tiemhang-api/internal/constants"
	"github.com/tiemhang/tiemhang-api/internal/logger"
	"github.com/tiemhang/tiemhang-api/internal/models"
	"github.com/tiemhang/tiemhang-api/internal/payment/vnpay"
	"github.com/tiemhang/tiemhang-api/internal/repository"
)

// PaymentService dispatches payment flows and applies gateway callbacks.
// Confirmation is idempotent: the paid state short-circuits before any side
// effect.
type PaymentService struct {
	orders   repository.OrderRepository
	statuses *OrderStatusService
	vnpayCfg *vnpay.Config
}

// NewPaymentService creates the payment service.
func NewPaymentService(orders repository.OrderRepository, statuses *OrderStatusService, vnpayCfg *vnpay.Config) *PaymentService {
	return &PaymentService{
		orders:   orders,
		statuses: statuses,
		vnpayCfg: vnpayCfg,
	}
}

// Configured reports whether the online gateway has credentials.
func (s *PaymentService) Configured() bool {
	return s != nil && s.vnpayCfg != nil && s.vnpayCfg.Validate() == nil
}

// CreatePaymentURL builds the signed redirect URL for an online order. A
// missing or broken gateway configuration degrades to a warning; the order
// stands as COD-equivalent.
func (s *PaymentService) CreatePaymentURL(order *models.Order, clientIP string) (string, string) {
	if order == nil {
		return "", ""
	}
	if !s.Configured() {
		logger.Warnw("payment_gateway_unconfigured", "order_no", order.OrderNo)
		return "", "payment gateway unavailable; pay on delivery or retry payment later"
	}

	input := vnpay.CreateInput{
		OrderNo:   order.OrderNo,
		Amount:    order.TotalAmount.IntPart(),
		ClientIP:  clientIP,
		CreatedAt: time.Now(),
	}
	if order.ExpiresAt != nil {
		input.ExpiresAt = *order.ExpiresAt
	}
	paymentURL, err := vnpay.BuildPaymentURL(s.vnpayCfg, input)
	if err != nil {
		logger.Warnw("payment_url_build_failed", "order_no", order.OrderNo, "error", err)
		return "", "payment gateway unavailable; pay on delivery or retry payment later"
	}
	return paymentURL, ""
}

// VerifyCallback validates a gateway return or IPN request.
func (s *PaymentService) VerifyCallback(form url.Values) (*vnpay.CallbackResult, error) {
	return vnpay.VerifyCallback(s.vnpayCfg, form)
}

// ConfirmPayment applies a verified successful callback. Replays of the same
// confirmation find the order already paid and change nothing.
func (s *PaymentService) ConfirmPayment(result *vnpay.CallbackResult) (*models.Order, error) {
	order, err := s.orders.GetByOrderNo(result.OrderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.IsPaid() {
		logger.Infow("payment_confirm_replay_ignored", "order_no", order.OrderNo)
		return order, nil
	}
	if result.Amount != order.TotalAmount.IntPart() {
		logger.Errorw("payment_amount_mismatch",
			"order_no", order.OrderNo,
			"expected", order.TotalAmount.String(),
			"received", result.Amount)
		return nil, vnpay.ErrAmountInvalid
	}

	now := time.Now()
	err = s.orders.UpdateFields(order.ID, map[string]interface{}{
		"payment_status": constants.PaymentStatusPaid,
		"paid_at":        now,
	})
	if err != nil {
		return nil, err
	}
	order.PaymentStatus = constants.PaymentStatusPaid
	order.PaidAt = &now

	// Best-effort dedupe marker; the paid column above stays authoritative.
	_ = cache.SetJSON(context.Background(), "payment:confirmed:"+order.OrderNo, true, 24*time.Hour)

	logger.Infow("payment_confirmed", "order_no", order.OrderNo, "transaction_no", result.TransactionNo)
	return order, nil
}

// FailPayment records a failed gateway outcome. Only a pending payment can
// move to failed.
func (s *PaymentService) FailPayment(result *vnpay.CallbackResult) (*models.Order, error) {
	order, err := s.orders.GetByOrderNo(result.OrderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.PaymentStatus != constants.PaymentStatusPending {
		return order, nil
	}
	err = s.orders.UpdateFields(order.ID, map[string]interface{}{
		"payment_status": constants.PaymentStatusFailed,
	})
	if err != nil {
		return nil, err
	}
	order.PaymentStatus = constants.PaymentStatusFailed
	logger.Infow("payment_failed", "order_no", order.OrderNo, "response_code", result.ResponseCode)
	return order, nil
}

// HandlePaymentTimeout cancels an online order whose payment window expired.
// The cancellation runs through the state machine, so a paid or advanced
// order is left alone.
func (s *PaymentService) HandlePaymentTimeout(orderID uint) error {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}
	if order.PaymentMethod != constants.PaymentMethodOnline ||
		order.Status != constants.OrderStatusPending ||
		order.PaymentStatus != constants.PaymentStatusPending {
		return nil
	}
	if order.ExpiresAt == nil || time.Now().Before(*order.ExpiresAt) {
		return nil
	}

	_, err = s.statuses.SetStatus(order.ID, constants.OrderStatusCancelled, "payment window expired", 0)
	if err != nil {
		logger.Warnw("payment_timeout_cancel_failed", "order_id", order.ID, "error", err)
		return err
	}
	logger.Infow("order_cancelled_payment_timeout", "order_id", order.ID, "order_no", order.OrderNo)
	return nil
}
