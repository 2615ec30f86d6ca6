package service

import (
	"errors"
	"testing"
	"time"

	"github.com/tiemhang/tiemhang-api/internal/constants"
	"github.com/tiemhang/tiemhang-api/internal/payment/vnpay"
)

func TestConfirmPaymentIdempotent(t *testing.T) {
	f := newTestFixture(t, "pay_confirm", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 10)
	order := placeTestOrder(t, f, 1, product.ID, 0, 1, constants.PaymentMethodOnline)

	result := &vnpay.CallbackResult{
		OrderNo:       order.OrderNo,
		Amount:        order.TotalAmount.IntPart(),
		ResponseCode:  vnpay.ResponseCodeSuccess,
		TransactionNo: "14567890",
		Success:       true,
	}
	confirmed, err := f.payments.ConfirmPayment(result)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if !confirmed.IsPaid() || confirmed.PaidAt == nil {
		t.Fatalf("expected paid order, got %+v", confirmed)
	}
	firstPaidAt := *confirmed.PaidAt

	// Replays find the order already paid and change nothing.
	replayed, err := f.payments.ConfirmPayment(result)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if replayed.PaidAt == nil {
		t.Fatalf("expected paid_at preserved on replay")
	}
	if drift := replayed.PaidAt.Sub(firstPaidAt); drift < -time.Second || drift > time.Second {
		t.Fatalf("expected paid_at unchanged on replay, got %v vs %v", replayed.PaidAt, firstPaidAt)
	}
}

func TestConfirmPaymentAmountMismatch(t *testing.T) {
	f := newTestFixture(t, "pay_mismatch", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 10)
	order := placeTestOrder(t, f, 1, product.ID, 0, 1, constants.PaymentMethodOnline)

	_, err := f.payments.ConfirmPayment(&vnpay.CallbackResult{
		OrderNo: order.OrderNo,
		Amount:  order.TotalAmount.IntPart() - 1000,
		Success: true,
	})
	if !errors.Is(err, vnpay.ErrAmountInvalid) {
		t.Fatalf("expected ErrAmountInvalid, got %v", err)
	}

	reloaded, err := f.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.IsPaid() {
		t.Fatalf("mismatched amount must not mark the order paid")
	}
}

func TestConfirmPaymentUnknownOrder(t *testing.T) {
	f := newTestFixture(t, "pay_unknown", 0)

	_, err := f.payments.ConfirmPayment(&vnpay.CallbackResult{OrderNo: "ORD00000000000000000000", Amount: 1000})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestFailPaymentOnlyFromPending(t *testing.T) {
	f := newTestFixture(t, "pay_fail", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 10)
	order := placeTestOrder(t, f, 1, product.ID, 0, 1, constants.PaymentMethodOnline)

	failed, err := f.payments.FailPayment(&vnpay.CallbackResult{OrderNo: order.OrderNo, ResponseCode: "24"})
	if err != nil {
		t.Fatalf("fail payment failed: %v", err)
	}
	if failed.PaymentStatus != constants.PaymentStatusFailed {
		t.Fatalf("expected failed payment status, got %s", failed.PaymentStatus)
	}

	// A paid order must not flip back to failed.
	now := time.Now()
	if err := f.orders.UpdateFields(order.ID, map[string]interface{}{
		"payment_status": constants.PaymentStatusPaid,
		"paid_at":        now,
	}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	untouched, err := f.payments.FailPayment(&vnpay.CallbackResult{OrderNo: order.OrderNo, ResponseCode: "24"})
	if err != nil {
		t.Fatalf("fail payment failed: %v", err)
	}
	if untouched.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("expected paid status preserved, got %s", untouched.PaymentStatus)
	}
}

func TestHandlePaymentTimeoutCancelsExpiredOrder(t *testing.T) {
	f := newTestFixture(t, "pay_timeout", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 10)
	order := placeTestOrder(t, f, 1, product.ID, 0, 2, constants.PaymentMethodOnline)

	expired := time.Now().Add(-time.Minute)
	if err := f.orders.UpdateFields(order.ID, map[string]interface{}{"expires_at": expired}); err != nil {
		t.Fatalf("backdate expiry failed: %v", err)
	}

	if err := f.payments.HandlePaymentTimeout(order.ID); err != nil {
		t.Fatalf("timeout handling failed: %v", err)
	}

	reloaded, err := f.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled order, got %s", reloaded.Status)
	}
	if got := reloadProduct(t, f.db, product.ID).Stock; got != 10 {
		t.Fatalf("expected stock restored, got %d", got)
	}
}

func TestHandlePaymentTimeoutSkipsPaidAndUnexpired(t *testing.T) {
	f := newTestFixture(t, "pay_timeout_skip", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 10)

	// Unexpired order is left alone.
	fresh := placeTestOrder(t, f, 1, product.ID, 0, 1, constants.PaymentMethodOnline)
	if err := f.payments.HandlePaymentTimeout(fresh.ID); err != nil {
		t.Fatalf("timeout handling failed: %v", err)
	}
	reloaded, err := f.orders.GetByID(fresh.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending order untouched, got %s", reloaded.Status)
	}

	// Paid order is left alone even past the deadline.
	paid := placeTestOrder(t, f, 2, product.ID, 0, 1, constants.PaymentMethodOnline)
	now := time.Now()
	if err := f.orders.UpdateFields(paid.ID, map[string]interface{}{
		"payment_status": constants.PaymentStatusPaid,
		"paid_at":        now,
		"expires_at":     now.Add(-time.Minute),
	}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if err := f.payments.HandlePaymentTimeout(paid.ID); err != nil {
		t.Fatalf("timeout handling failed: %v", err)
	}
	reloaded, err = f.orders.GetByID(paid.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending || !reloaded.IsPaid() {
		t.Fatalf("expected paid pending order untouched, got %+v", reloaded)
	}

	// Missing order is not an error.
	if err := f.payments.HandlePaymentTimeout(9999); err != nil {
		t.Fatalf("missing order must be a no-op, got %v", err)
	}
}
