package service

import (
	"errors"
	"strings"

	"github.com/tiemhang/tiemhang-api/internal/constants"
	"github.com/tiemhang/tiemhang-api/internal/logger"
	"github.com/tiemhang/tiemhang-api/internal/models"
	"github.com/tiemhang/tiemhang-api/internal/repository"

	"gorm.io/gorm"
)

// casRetryLimit bounds the optimistic stock update loop. Conflicts are
// resolved by immediate re-read; the keyed mutex keeps them rare.
const casRetryLimit = 5

// stockLine identifies one stock counter. VariantID is zero for simple
// products.
type stockLine struct {
	ProductID uint
	VariantID uint
}

// alertEvent describes a newly raised low-stock alert, emitted after the
// surrounding transaction commits.
type alertEvent struct {
	ProductID uint
	VariantID uint
	Stock     int
	Threshold int
}

// InventoryService owns the stock ledger. Every stock mutation in the system
// funnels through applyMovement, which performs the guarded counter update,
// appends the ledger row and re-checks the low-stock threshold.
type InventoryService struct {
	db            *gorm.DB
	products      repository.ProductRepository
	variants      repository.ProductVariantRepository
	movements     repository.StockMovementRepository
	alerts        repository.StockAlertRepository
	notifications *NotificationService
	guard         *stockGuard
	threshold     int
}

// NewInventoryService creates the inventory service.
func NewInventoryService(
	db *gorm.DB,
	products repository.ProductRepository,
	variants repository.ProductVariantRepository,
	movements repository.StockMovementRepository,
	alerts repository.StockAlertRepository,
	notifications *NotificationService,
	lowStockThreshold int,
) *InventoryService {
	if lowStockThreshold < 0 {
		lowStockThreshold = 0
	}
	return &InventoryService{
		db:            db,
		products:      products,
		variants:      variants,
		movements:     movements,
		alerts:        alerts,
		notifications: notifications,
		guard:         newStockGuard(),
		threshold:     lowStockThreshold,
	}
}

// StockInInput is a relative stock increase.
type StockInInput struct {
	ProductID uint
	VariantID uint
	Quantity  int
	Reason    string
	ActorID   uint
	Note      string
}

// AdjustInput sets an absolute stock level; the delta is computed internally.
type AdjustInput struct {
	ProductID   uint
	VariantID   uint
	NewQuantity int
	Reason      string
	ActorID     uint
	Note        string
}

// StockIn increases stock by a positive quantity and appends an `in` ledger
// row.
func (s *InventoryService) StockIn(input StockInInput) (*models.StockMovement, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = constants.MovementReasonStockIn
	}

	unlock := s.guard.Lock(input.ProductID, input.VariantID)
	defer unlock()

	var movement *models.StockMovement
	var event *alertEvent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		movement, event, txErr = s.applyMovement(tx, stockLine{input.ProductID, input.VariantID},
			input.Quantity, nil, constants.MovementTypeIn, reason, "", input.ActorID, input.Note)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	s.emitAlert(event)
	return movement, nil
}

// Adjust sets the stock counter to an absolute value and appends an
// `adjustment` ledger row. The threshold re-check runs on this path the same
// way it runs after a debit.
func (s *InventoryService) Adjust(input AdjustInput) (*models.StockMovement, error) {
	if input.NewQuantity < 0 {
		return nil, ErrInvalidQuantity
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = constants.MovementReasonAdjustment
	}

	unlock := s.guard.Lock(input.ProductID, input.VariantID)
	defer unlock()

	var movement *models.StockMovement
	var event *alertEvent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		movement, event, txErr = s.applyMovement(tx, stockLine{input.ProductID, input.VariantID},
			0, &input.NewQuantity, constants.MovementTypeAdjustment, reason, "", input.ActorID, input.Note)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	s.emitAlert(event)
	return movement, nil
}

// Movements queries the ledger.
func (s *InventoryService) Movements(filter repository.MovementListFilter) ([]models.StockMovement, int64, error) {
	return s.movements.List(filter)
}

// Alerts queries low-stock alerts.
func (s *InventoryService) Alerts(filter repository.AlertListFilter) ([]models.StockAlert, int64, error) {
	return s.alerts.List(filter)
}

// MarkAlertNotified flags one alert as acknowledged by staff.
func (s *InventoryService) MarkAlertNotified(id uint) error {
	alert, err := s.alerts.GetByID(id)
	if err != nil {
		return err
	}
	if alert == nil {
		return ErrAlertNotFound
	}
	return s.alerts.MarkNotified(id)
}

// applyMovement performs one guarded stock change inside the caller's
// transaction: optimistic counter update with immediate re-check on conflict,
// one appended ledger row carrying the previous and new stock from the same
// update, then the threshold check. Callers must hold the stock guard for the
// line and emit the returned alert event only after commit.
//
// Exactly one of delta / absolute is used: absolute != nil sets the counter
// to *absolute, otherwise delta is added.
func (s *InventoryService) applyMovement(
	tx *gorm.DB,
	line stockLine,
	delta int,
	absolute *int,
	movementType, reason, reference string,
	actorID uint,
	note string,
) (*models.StockMovement, *alertEvent, error) {
	previous, updated, err := s.updateCounter(tx, line, delta, absolute)
	if err != nil {
		return nil, nil, err
	}

	movement := &models.StockMovement{
		ProductID:     line.ProductID,
		VariantID:     line.VariantID,
		Type:          movementType,
		Quantity:      updated - previous,
		PreviousStock: previous,
		NewStock:      updated,
		Reason:        reason,
		Reference:     reference,
		OperatorID:    actorID,
		Note:          note,
	}
	if err := s.movements.WithTx(tx).Create(movement); err != nil {
		return nil, nil, err
	}

	event, err := s.recheckThreshold(tx, line, updated)
	if err != nil {
		return nil, nil, err
	}
	return movement, event, nil
}

// updateCounter runs the compare-and-swap loop over the stock column.
func (s *InventoryService) updateCounter(tx *gorm.DB, line stockLine, delta int, absolute *int) (int, int, error) {
	for attempt := 0; attempt < casRetryLimit; attempt++ {
		current, err := s.readStock(tx, line)
		if err != nil {
			return 0, 0, err
		}

		target := current + delta
		if absolute != nil {
			target = *absolute
		}
		if target < 0 {
			return 0, 0, &InsufficientStockError{
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				Available: current,
			}
		}

		var affected int64
		if line.VariantID > 0 {
			affected, err = s.variants.WithTx(tx).UpdateStockCAS(line.VariantID, current, target)
		} else {
			affected, err = s.products.WithTx(tx).UpdateStockCAS(line.ProductID, current, target)
		}
		if err != nil {
			return 0, 0, err
		}
		if affected > 0 {
			return current, target, nil
		}
		// Lost the race; re-read and try again immediately.
	}
	logger.Errorw("stock_cas_exhausted", "product_id", line.ProductID, "variant_id", line.VariantID)
	return 0, 0, ErrStockNotAvailable
}

// readStock reads the current counter for a line, failing with
// ErrStockNotAvailable when the backing row is gone.
func (s *InventoryService) readStock(tx *gorm.DB, line stockLine) (int, error) {
	if line.VariantID > 0 {
		variant, err := s.variants.WithTx(tx).GetByID(line.VariantID)
		if err != nil {
			return 0, err
		}
		if variant == nil || variant.ProductID != line.ProductID {
			return 0, ErrStockNotAvailable
		}
		return variant.Stock, nil
	}
	product, err := s.products.WithTx(tx).GetByID(line.ProductID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, ErrStockNotAvailable
	}
	return product.Stock, nil
}

// recheckThreshold applies the alert rules after a counter change. A drop to
// or below the threshold creates the alert row or refreshes its stock
// snapshot without touching the notified flag; a rise above the threshold
// refreshes the snapshot and rearms the alert.
func (s *InventoryService) recheckThreshold(tx *gorm.DB, line stockLine, newStock int) (*alertEvent, error) {
	alerts := s.alerts.WithTx(tx)
	existing, err := alerts.GetByLine(line.ProductID, line.VariantID)
	if err != nil {
		return nil, err
	}

	if newStock <= s.threshold {
		if existing == nil {
			alert := &models.StockAlert{
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				Stock:     newStock,
				Threshold: s.threshold,
			}
			if err := alerts.Create(alert); err != nil {
				return nil, err
			}
			return &alertEvent{
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				Stock:     newStock,
				Threshold: s.threshold,
			}, nil
		}
		return nil, alerts.UpdateFields(existing.ID, map[string]interface{}{
			"stock":     newStock,
			"threshold": s.threshold,
		})
	}

	if existing != nil {
		return nil, alerts.UpdateFields(existing.ID, map[string]interface{}{
			"stock":       newStock,
			"notified":    false,
			"notified_at": nil,
		})
	}
	return nil, nil
}

// emitAlert pushes a low-stock notification, best effort.
func (s *InventoryService) emitAlert(event *alertEvent) {
	if event == nil || s.notifications == nil {
		return
	}
	s.notifications.NotifyStockAlert(event.ProductID, event.VariantID, event.Stock, event.Threshold)
}

// IsConsistencyError reports whether an error belongs to the consistency
// class that order creation compensates for.
func IsConsistencyError(err error) bool {
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrVariantNotFound) ||
		errors.Is(err, ErrStockNotAvailable)
}
