package service

import (
	"time"

	"github.com/tiemhang/tiemhang-api/internal/constants"
	"github.com/tiemhang/tiemhang-api/internal/logger"
	"github.com/tiemhang/tiemhang-api/internal/models"
	"github.com/tiemhang/tiemhang-api/internal/repository"

	"gorm.io/gorm"
)

// nextStatus is the forward-only happy path. Delivered and cancelled have no
// successor.
var nextStatus = map[string]string{
	constants.OrderStatusPending:    constants.OrderStatusConfirmed,
	constants.OrderStatusConfirmed:  constants.OrderStatusProcessing,
	constants.OrderStatusProcessing: constants.OrderStatusShipping,
	constants.OrderStatusShipping:   constants.OrderStatusDelivered,
}

// cancellableFrom lists the statuses that may still transition to cancelled.
var cancellableFrom = map[string]bool{
	constants.OrderStatusPending:    true,
	constants.OrderStatusConfirmed:  true,
	constants.OrderStatusProcessing: true,
}

// transitionAllowed is the single legality check both Advance and SetStatus
// funnel through.
func transitionAllowed(from, to string) bool {
	if to == constants.OrderStatusCancelled {
		return cancellableFrom[from]
	}
	return nextStatus[from] == to
}

// ValidOrderStatus reports whether a status value exists at all.
func ValidOrderStatus(status string) bool {
	switch status {
	case constants.OrderStatusPending, constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing, constants.OrderStatusShipping,
		constants.OrderStatusDelivered, constants.OrderStatusCancelled:
		return true
	}
	return false
}

// OrderStatusService owns every order lifecycle transition.
type OrderStatusService struct {
	db            *gorm.DB
	orders        repository.OrderRepository
	inventory     *InventoryService
	notifications *NotificationService
}

// NewOrderStatusService creates the state machine service.
func NewOrderStatusService(
	db *gorm.DB,
	orders repository.OrderRepository,
	inventory *InventoryService,
	notifications *NotificationService,
) *OrderStatusService {
	return &OrderStatusService{
		db:            db,
		orders:        orders,
		inventory:     inventory,
		notifications: notifications,
	}
}

// Advance moves an order to its single next status.
func (s *OrderStatusService) Advance(orderID, actorID uint) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	target, ok := nextStatus[order.Status]
	if !ok {
		return nil, ErrInvalidTransition
	}
	return s.transition(order, target, "", actorID)
}

// SetStatus moves an order to an explicit target status.
func (s *OrderStatusService) SetStatus(orderID uint, target, notes string, actorID uint) (*models.Order, error) {
	if !ValidOrderStatus(target) {
		return nil, ErrInvalidTransition
	}
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.transition(order, target, notes, actorID)
}

// CancelByUser cancels the caller's own order through the same transition
// rules an admin cancellation follows.
func (s *OrderStatusService) CancelByUser(orderID, userID uint, reason string) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return s.transition(order, constants.OrderStatusCancelled, reason, 0)
}

// transition applies one accepted status change atomically: the status
// update, compensating `in` movements when entering cancelled, then a
// fire-and-forget notification after commit. The caller's snapshot is only a
// hint; legality and the paid guard are re-checked against the current row
// inside the transaction, and the write itself is conditional on the observed
// status so a racing transition loses with zero rows instead of applying
// twice.
func (s *OrderStatusService) transition(order *models.Order, target, notes string, actorID uint) (*models.Order, error) {
	if !transitionAllowed(order.Status, target) {
		return nil, ErrInvalidTransition
	}
	if target == constants.OrderStatusCancelled && order.IsPaid() {
		return nil, ErrPaymentCaptured
	}

	previous := order.Status
	var events []*alertEvent

	run := func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			fresh, err := s.orders.WithTx(tx).GetByID(order.ID)
			if err != nil {
				return err
			}
			if fresh == nil {
				return ErrOrderNotFound
			}
			if !transitionAllowed(fresh.Status, target) {
				return ErrInvalidTransition
			}
			if target == constants.OrderStatusCancelled && fresh.IsPaid() {
				return ErrPaymentCaptured
			}
			previous = fresh.Status

			fields := map[string]interface{}{"status": target}
			if target == constants.OrderStatusCancelled {
				now := time.Now()
				fields["cancel_reason"] = notes
				fields["cancelled_at"] = now
			} else if notes != "" {
				fields["notes"] = notes
			}
			guardUnpaid := target == constants.OrderStatusCancelled
			affected, err := s.orders.WithTx(tx).UpdateStatusCAS(order.ID, fresh.Status, guardUnpaid, fields)
			if err != nil {
				return err
			}
			if affected == 0 {
				// Lost a race after the re-read. Distinguish a captured
				// payment from a moved status for the caller.
				current, err := s.orders.WithTx(tx).GetByID(order.ID)
				if err != nil {
					return err
				}
				if guardUnpaid && current != nil && current.IsPaid() {
					return ErrPaymentCaptured
				}
				return ErrInvalidTransition
			}

			if target == constants.OrderStatusCancelled {
				restored, err := s.restoreStock(tx, fresh, actorID)
				if err != nil {
					return err
				}
				events = restored
			}
			return nil
		})
	}

	if target == constants.OrderStatusCancelled {
		keys := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			keys = append(keys, stockKey(item.ProductID, item.VariantID))
		}
		unlock := s.inventory.guard.LockAll(keys)
		defer unlock()
	}
	if err := run(); err != nil {
		return nil, err
	}

	order.Status = target
	for _, event := range events {
		s.inventory.emitAlert(event)
	}
	s.notifications.NotifyOrderStatus(order.ID, order.OrderNo, target, previous)
	logger.Infow("order_status_changed", "order_id", order.ID, "order_no", order.OrderNo, "from", previous, "to", target)
	return order, nil
}

// restoreStock writes one compensating `in` movement per order line inside
// the cancellation transaction.
func (s *OrderStatusService) restoreStock(tx *gorm.DB, order *models.Order, actorID uint) ([]*alertEvent, error) {
	var events []*alertEvent
	for _, item := range order.Items {
		_, event, err := s.inventory.applyMovement(tx,
			stockLine{item.ProductID, item.VariantID},
			item.Quantity, nil,
			constants.MovementTypeIn, constants.MovementReasonOrderCancelled,
			order.OrderNo, actorID, "")
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, event)
		}
	}
	return events, nil
}
