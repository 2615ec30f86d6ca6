package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tiemhang/tiemhang-api/internal/constants"
	"github.com/tiemhang/tiemhang-api/internal/models"
)

func placeTestOrder(t *testing.T, f *testFixture, userID uint, productID, variantID uint, quantity int, method string) *models.Order {
	t.Helper()
	addCartLine(t, f.db, userID, productID, variantID, quantity)
	result, err := f.orderSvc.CreateOrder(context.Background(), userID, CreateOrderInput{
		ReceiverName:    "Nguyen Van A",
		ReceiverPhone:   "0900000001",
		ShippingAddress: "12 Ly Thuong Kiet, Ha Noi",
		PaymentMethod:   method,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return result.Order
}

func TestAdvanceThroughLifecycle(t *testing.T) {
	f := newTestFixture(t, "status_advance", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 10)
	order := placeTestOrder(t, f, 1, product.ID, 0, 1, constants.PaymentMethodCOD)

	want := []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipping,
		constants.OrderStatusDelivered,
	}
	for _, target := range want {
		updated, err := f.statuses.Advance(order.ID, 9)
		if err != nil {
			t.Fatalf("advance to %s failed: %v", target, err)
		}
		if updated.Status != target {
			t.Fatalf("expected status %s, got %s", target, updated.Status)
		}
	}

	// Delivered is terminal.
	if _, err := f.statuses.Advance(order.ID, 9); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition after delivered, got %v", err)
	}
}

func TestSetStatusRejectsSkips(t *testing.T) {
	f := newTestFixture(t, "status_skip", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 10)
	order := placeTestOrder(t, f, 1, product.ID, 0, 1, constants.PaymentMethodCOD)

	if _, err := f.statuses.SetStatus(order.ID, constants.OrderStatusShipping, "", 9); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for skipped step, got %v", err)
	}
	if _, err := f.statuses.SetStatus(order.ID, "teleported", "", 9); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for unknown status, got %v", err)
	}
	if _, err := f.statuses.SetStatus(order.ID+99, constants.OrderStatusConfirmed, "", 9); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestCancelRestoresStock(t *testing.T) {
	f := newTestFixture(t, "status_cancel", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 10)
	order := placeTestOrder(t, f, 1, product.ID, 0, 3, constants.PaymentMethodCOD)

	if got := reloadProduct(t, f.db, product.ID).Stock; got != 7 {
		t.Fatalf("expected stock 7 after reservation, got %d", got)
	}

	cancelled, err := f.statuses.SetStatus(order.ID, constants.OrderStatusCancelled, "customer changed mind", 9)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", cancelled.Status)
	}
	if got := reloadProduct(t, f.db, product.ID).Stock; got != 10 {
		t.Fatalf("expected stock restored to 10, got %d", got)
	}

	var stored models.Order
	if err := f.db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.CancelReason != "customer changed mind" || stored.CancelledAt == nil {
		t.Fatalf("expected cancel metadata, got %+v", stored)
	}

	var restores []models.StockMovement
	if err := f.db.Where("reason = ?", constants.MovementReasonOrderCancelled).Find(&restores).Error; err != nil {
		t.Fatalf("load movements failed: %v", err)
	}
	if len(restores) != 1 {
		t.Fatalf("expected one compensating movement, got %d", len(restores))
	}
	if restores[0].Type != constants.MovementTypeIn || restores[0].Reference != order.OrderNo || restores[0].Quantity != 3 {
		t.Fatalf("unexpected compensating movement: %+v", restores[0])
	}
}

func TestCancelPaidOrderRejected(t *testing.T) {
	f := newTestFixture(t, "status_cancel_paid", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 10)
	order := placeTestOrder(t, f, 1, product.ID, 0, 1, constants.PaymentMethodCOD)

	now := time.Now()
	if err := f.orders.UpdateFields(order.ID, map[string]interface{}{
		"payment_status": constants.PaymentStatusPaid,
		"paid_at":        now,
	}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	if _, err := f.statuses.SetStatus(order.ID, constants.OrderStatusCancelled, "", 9); !errors.Is(err, ErrPaymentCaptured) {
		t.Fatalf("expected ErrPaymentCaptured, got %v", err)
	}
	if got := reloadProduct(t, f.db, product.ID).Stock; got != 9 {
		t.Fatalf("expected stock to stay reserved, got %d", got)
	}
}

func TestCancelFromShippingRejected(t *testing.T) {
	f := newTestFixture(t, "status_cancel_shipping", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 10)
	order := placeTestOrder(t, f, 1, product.ID, 0, 1, constants.PaymentMethodCOD)

	for i := 0; i < 3; i++ {
		if _, err := f.statuses.Advance(order.ID, 9); err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}

	if _, err := f.statuses.SetStatus(order.ID, constants.OrderStatusCancelled, "", 9); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from shipping, got %v", err)
	}
}

func TestCancelStaleSnapshotRestoresOnce(t *testing.T) {
	f := newTestFixture(t, "status_stale_cancel", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 5)
	order := placeTestOrder(t, f, 1, product.ID, 0, 3, constants.PaymentMethodCOD)

	// Two callers read the same pending order before either cancels.
	stale, err := f.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	if _, err := f.statuses.SetStatus(order.ID, constants.OrderStatusCancelled, "first cancel", 9); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	if got := reloadProduct(t, f.db, product.ID).Stock; got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}

	// The second cancel still holds a pending-state snapshot; the row check
	// inside the transaction must reject it instead of restoring again.
	if _, err := f.statuses.transition(stale, constants.OrderStatusCancelled, "second cancel", 9); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for stale cancel, got %v", err)
	}
	if got := reloadProduct(t, f.db, product.ID).Stock; got != 5 {
		t.Fatalf("expected stock unchanged after rejected cancel, got %d", got)
	}
	var restores int64
	if err := f.db.Model(&models.StockMovement{}).Where("reason = ?", constants.MovementReasonOrderCancelled).Count(&restores).Error; err != nil {
		t.Fatalf("count movements failed: %v", err)
	}
	if restores != 1 {
		t.Fatalf("expected exactly one compensating movement, got %d", restores)
	}
}

func TestCancelRejectedWhenPaymentLandsMidFlight(t *testing.T) {
	f := newTestFixture(t, "status_paid_midflight", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 5)
	order := placeTestOrder(t, f, 1, product.ID, 0, 2, constants.PaymentMethodOnline)

	// The canceller reads the order while it is still unpaid.
	stale, err := f.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if stale.IsPaid() {
		t.Fatalf("expected unpaid snapshot")
	}

	// Payment is captured before the cancel commits.
	now := time.Now()
	if err := f.orders.UpdateFields(order.ID, map[string]interface{}{
		"payment_status": constants.PaymentStatusPaid,
		"paid_at":        now,
	}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	if _, err := f.statuses.transition(stale, constants.OrderStatusCancelled, "", 0); !errors.Is(err, ErrPaymentCaptured) {
		t.Fatalf("expected ErrPaymentCaptured, got %v", err)
	}
	reloaded, err := f.orders.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("expected paid order left pending, got %s", reloaded.Status)
	}
	if got := reloadProduct(t, f.db, product.ID).Stock; got != 3 {
		t.Fatalf("expected stock to stay reserved, got %d", got)
	}
}

func TestConcurrentCancelsRestoreOnce(t *testing.T) {
	f := newTestFixture(t, "status_concurrent_cancel", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 5)
	order := placeTestOrder(t, f, 1, product.ID, 0, 3, constants.PaymentMethodCOD)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.statuses.CancelByUser(order.ID, 1, "duplicate click")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, rejected := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInvalidTransition):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("expected 1 cancel / 1 rejection, got %d / %d", succeeded, rejected)
	}
	if got := reloadProduct(t, f.db, product.ID).Stock; got != 5 {
		t.Fatalf("expected stock restored exactly once, got %d", got)
	}
	var restores int64
	if err := f.db.Model(&models.StockMovement{}).Where("reason = ?", constants.MovementReasonOrderCancelled).Count(&restores).Error; err != nil {
		t.Fatalf("count movements failed: %v", err)
	}
	if restores != 1 {
		t.Fatalf("expected one compensating movement, got %d", restores)
	}
}

func TestCancelByUserOwnership(t *testing.T) {
	f := newTestFixture(t, "status_cancel_owner", 0)
	product := createTestProduct(t, f.db, "bottle", 220000, 10)
	order := placeTestOrder(t, f, 1, product.ID, 0, 1, constants.PaymentMethodCOD)

	if _, err := f.statuses.CancelByUser(order.ID, 2, "not mine"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for wrong owner, got %v", err)
	}

	cancelled, err := f.statuses.CancelByUser(order.ID, 1, "ordered twice")
	if err != nil {
		t.Fatalf("cancel by owner failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if got := reloadProduct(t, f.db, product.ID).Stock; got != 10 {
		t.Fatalf("expected stock restored, got %d", got)
	}
}
