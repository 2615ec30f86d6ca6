package service

import (
	"github.com/tiemhang/tiemhang-api/internal/logger"
	"github.com/tiemhang/tiemhang-api/internal/queue"
)

// NotificationService pushes domain events onto the async queue. Every method
// is fire-and-forget: enqueue failures are logged and swallowed so they can
// never roll back the state change that produced them.
type NotificationService struct {
	queue *queue.Client
}

// NewNotificationService creates the notification service.
func NewNotificationService(queueClient *queue.Client) *NotificationService {
	return &NotificationService{queue: queueClient}
}

// NotifyOrderStatus emits an order status change event.
func (s *NotificationService) NotifyOrderStatus(orderID uint, orderNo, status, previous string) {
	if s == nil || s.queue == nil {
		return
	}
	err := s.queue.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
		OrderID:  orderID,
		OrderNo:  orderNo,
		Status:   status,
		Previous: previous,
	})
	if err != nil {
		logger.Warnw("order_status_notify_enqueue_failed", "order_id", orderID, "status", status, "error", err)
	}
}

// NotifyStockAlert emits a low-stock event.
func (s *NotificationService) NotifyStockAlert(productID, variantID uint, stock, threshold int) {
	if s == nil || s.queue == nil {
		return
	}
	err := s.queue.EnqueueStockAlertNotify(queue.StockAlertNotifyPayload{
		ProductID: productID,
		VariantID: variantID,
		Stock:     stock,
		Threshold: threshold,
	})
	if err != nil {
		logger.Warnw("stock_alert_notify_enqueue_failed", "product_id", productID, "variant_id", variantID, "error", err)
	}
}
