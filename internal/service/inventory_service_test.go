package service

import (
	"errors"
	"testing"

	"github.com/tiemhang/tiemhang-api/internal/constants"
	"github.com/tiemhang/tiemhang-api/internal/models"
	"github.com/tiemhang/tiemhang-api/internal/repository"
)

func TestStockInAppendsLedgerRow(t *testing.T) {
	db := newTestDB(t, "inv_stockin")
	product := createTestProduct(t, db, "bottle", 220000, 10)
	inventory := newTestInventoryService(db, 5)

	movement, err := inventory.StockIn(StockInInput{ProductID: product.ID, Quantity: 15, ActorID: 7, Note: "restock"})
	if err != nil {
		t.Fatalf("stock in failed: %v", err)
	}
	if movement.Type != constants.MovementTypeIn || movement.Reason != constants.MovementReasonStockIn {
		t.Fatalf("unexpected movement: %+v", movement)
	}
	if movement.PreviousStock != 10 || movement.NewStock != 25 || movement.Quantity != 15 {
		t.Fatalf("unexpected ledger values: %+v", movement)
	}
	if movement.OperatorID != 7 || movement.Note != "restock" {
		t.Fatalf("unexpected operator fields: %+v", movement)
	}
	if got := reloadProduct(t, db, product.ID).Stock; got != 25 {
		t.Fatalf("expected stock 25, got %d", got)
	}
}

func TestStockInVariantCounter(t *testing.T) {
	db := newTestDB(t, "inv_stockin_variant")
	product := createTestProduct(t, db, "tee", 150000, 0)
	variant := createTestVariant(t, db, product.ID, "IV-S", models.AttributeSet{{Name: "size", Value: "S"}}, 0, 3)
	inventory := newTestInventoryService(db, 0)

	movement, err := inventory.StockIn(StockInInput{ProductID: product.ID, VariantID: variant.ID, Quantity: 4})
	if err != nil {
		t.Fatalf("stock in failed: %v", err)
	}
	if movement.VariantID != variant.ID || movement.NewStock != 7 {
		t.Fatalf("unexpected movement: %+v", movement)
	}
	if got := reloadVariant(t, db, variant.ID).Stock; got != 7 {
		t.Fatalf("expected variant stock 7, got %d", got)
	}
	if got := reloadProduct(t, db, product.ID).Stock; got != 0 {
		t.Fatalf("expected product counter untouched, got %d", got)
	}
}

func TestStockInRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t, "inv_stockin_invalid")
	product := createTestProduct(t, db, "bottle", 220000, 10)
	inventory := newTestInventoryService(db, 5)

	for _, quantity := range []int{0, -3} {
		_, err := inventory.StockIn(StockInInput{ProductID: product.ID, Quantity: quantity})
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", quantity, err)
		}
	}
	if got := countMovements(t, db); got != 0 {
		t.Fatalf("expected no movements, got %d", got)
	}
}

func TestAdjustSetsAbsoluteLevel(t *testing.T) {
	db := newTestDB(t, "inv_adjust")
	product := createTestProduct(t, db, "bottle", 220000, 10)
	inventory := newTestInventoryService(db, 2)

	movement, err := inventory.Adjust(AdjustInput{ProductID: product.ID, NewQuantity: 4, Note: "cycle count"})
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if movement.Type != constants.MovementTypeAdjustment || movement.Reason != constants.MovementReasonAdjustment {
		t.Fatalf("unexpected movement: %+v", movement)
	}
	if movement.PreviousStock != 10 || movement.NewStock != 4 || movement.Quantity != -6 {
		t.Fatalf("unexpected ledger values: %+v", movement)
	}
	if got := reloadProduct(t, db, product.ID).Stock; got != 4 {
		t.Fatalf("expected stock 4, got %d", got)
	}

	if _, err := inventory.Adjust(AdjustInput{ProductID: product.ID, NewQuantity: -1}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for negative target, got %v", err)
	}
}

func TestAdjustMissingProduct(t *testing.T) {
	db := newTestDB(t, "inv_adjust_missing")
	inventory := newTestInventoryService(db, 2)

	_, err := inventory.Adjust(AdjustInput{ProductID: 999, NewQuantity: 4})
	if !errors.Is(err, ErrStockNotAvailable) {
		t.Fatalf("expected ErrStockNotAvailable, got %v", err)
	}
}

func TestAlertCreatedOnThresholdDrop(t *testing.T) {
	db := newTestDB(t, "inv_alert_create")
	product := createTestProduct(t, db, "bottle", 220000, 10)
	inventory := newTestInventoryService(db, 5)

	if _, err := inventory.Adjust(AdjustInput{ProductID: product.ID, NewQuantity: 5}); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}

	alerts, total, err := inventory.Alerts(repository.AlertListFilter{ProductID: product.ID})
	if err != nil {
		t.Fatalf("list alerts failed: %v", err)
	}
	if total != 1 || len(alerts) != 1 {
		t.Fatalf("expected one alert, got %d", total)
	}
	alert := alerts[0]
	if alert.Stock != 5 || alert.Threshold != 5 || alert.Notified {
		t.Fatalf("unexpected alert: %+v", alert)
	}
}

func TestAlertRefreshKeepsNotifiedFlag(t *testing.T) {
	db := newTestDB(t, "inv_alert_refresh")
	product := createTestProduct(t, db, "bottle", 220000, 4)
	inventory := newTestInventoryService(db, 5)

	// First drop below threshold raises the alert.
	if _, err := inventory.Adjust(AdjustInput{ProductID: product.ID, NewQuantity: 3}); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	alerts, _, err := inventory.Alerts(repository.AlertListFilter{ProductID: product.ID})
	if err != nil || len(alerts) != 1 {
		t.Fatalf("expected one alert, got %v err %v", alerts, err)
	}
	if err := inventory.MarkAlertNotified(alerts[0].ID); err != nil {
		t.Fatalf("mark notified failed: %v", err)
	}

	// A further drop while still below threshold refreshes the snapshot but
	// must not rearm the alert.
	if _, err := inventory.Adjust(AdjustInput{ProductID: product.ID, NewQuantity: 1}); err != nil {
		t.Fatalf("second adjust failed: %v", err)
	}
	var alert models.StockAlert
	if err := db.First(&alert, alerts[0].ID).Error; err != nil {
		t.Fatalf("reload alert failed: %v", err)
	}
	if alert.Stock != 1 {
		t.Fatalf("expected refreshed stock 1, got %d", alert.Stock)
	}
	if !alert.Notified {
		t.Fatalf("expected notified flag to survive a refresh")
	}
}

func TestAlertRearmsAfterReplenishment(t *testing.T) {
	db := newTestDB(t, "inv_alert_rearm")
	product := createTestProduct(t, db, "bottle", 220000, 3)
	inventory := newTestInventoryService(db, 5)

	if _, err := inventory.Adjust(AdjustInput{ProductID: product.ID, NewQuantity: 2}); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	alerts, _, err := inventory.Alerts(repository.AlertListFilter{ProductID: product.ID})
	if err != nil || len(alerts) != 1 {
		t.Fatalf("expected one alert, got %v err %v", alerts, err)
	}
	if err := inventory.MarkAlertNotified(alerts[0].ID); err != nil {
		t.Fatalf("mark notified failed: %v", err)
	}

	// Stock back above the threshold rearms the alert for the next drop.
	if _, err := inventory.StockIn(StockInInput{ProductID: product.ID, Quantity: 20}); err != nil {
		t.Fatalf("stock in failed: %v", err)
	}
	var alert models.StockAlert
	if err := db.First(&alert, alerts[0].ID).Error; err != nil {
		t.Fatalf("reload alert failed: %v", err)
	}
	if alert.Notified || alert.NotifiedAt != nil {
		t.Fatalf("expected rearmed alert, got %+v", alert)
	}
	if alert.Stock != 22 {
		t.Fatalf("expected refreshed stock 22, got %d", alert.Stock)
	}
}

func TestMarkAlertNotifiedMissing(t *testing.T) {
	db := newTestDB(t, "inv_alert_missing")
	inventory := newTestInventoryService(db, 5)

	if err := inventory.MarkAlertNotified(42); !errors.Is(err, ErrAlertNotFound) {
		t.Fatalf("expected ErrAlertNotFound, got %v", err)
	}
}

func TestMovementsFilterByReference(t *testing.T) {
	db := newTestDB(t, "inv_movements_filter")
	product := createTestProduct(t, db, "bottle", 220000, 10)
	inventory := newTestInventoryService(db, 0)

	if _, err := inventory.StockIn(StockInInput{ProductID: product.ID, Quantity: 5}); err != nil {
		t.Fatalf("stock in failed: %v", err)
	}
	if _, err := inventory.Adjust(AdjustInput{ProductID: product.ID, NewQuantity: 12}); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}

	movements, total, err := inventory.Movements(repository.MovementListFilter{
		ProductID: product.ID,
		Type:      constants.MovementTypeIn,
	})
	if err != nil {
		t.Fatalf("list movements failed: %v", err)
	}
	if total != 1 || len(movements) != 1 || movements[0].Type != constants.MovementTypeIn {
		t.Fatalf("unexpected filtered movements: total %d %+v", total, movements)
	}
}
