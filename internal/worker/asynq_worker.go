package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/tiemhang/tiemhang-api/internal/logger"
	"github.com/tiemhang/tiemhang-api/internal/provider"
	"github.com/tiemhang/tiemhang-api/internal/queue"
	"github.com/tiemhang/tiemhang-api/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles async tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds task handlers onto the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusNotify, c.handleOrderStatusNotify)
	mux.HandleFunc(queue.TaskOrderPaymentTimeout, c.handleOrderPaymentTimeout)
	mux.HandleFunc(queue.TaskStockAlertNotify, c.handleStockAlertNotify)
}

func (c *Consumer) handleOrderStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_notify_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_notify_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}

	// Delivery channels (email, SMS) plug in here.
	logger.Infow("order_status_notified",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"status", payload.Status,
		"previous", payload.Previous,
		"user_id", order.UserID,
	)
	return nil
}

func (c *Consumer) handleOrderPaymentTimeout(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payment_timeout_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderPaymentTimeoutPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payment_timeout_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_payment_timeout_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.PaymentService == nil {
		logger.Warnw("worker_payment_timeout_skip_payment_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.PaymentService.HandlePaymentTimeout(payload.OrderID); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			logger.Debugw("worker_payment_timeout_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		case errors.Is(err, service.ErrInvalidTransition):
			logger.Debugw("worker_payment_timeout_skip_already_moved", "order_id", payload.OrderID)
			return nil
		default:
			logger.Warnw("worker_payment_timeout_failed", "order_id", payload.OrderID, "error", err)
			return err
		}
	}
	return nil
}

func (c *Consumer) handleStockAlertNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_stock_alert_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.StockAlertNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_stock_alert_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_stock_alert_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}
	product, err := c.ProductRepo.GetByID(payload.ProductID)
	if err != nil {
		logger.Warnw("worker_stock_alert_fetch_product_failed", "product_id", payload.ProductID, "error", err)
		return err
	}
	if product == nil {
		logger.Debugw("worker_stock_alert_skip_product_not_found", "product_id", payload.ProductID)
		return nil
	}

	logger.Warnw("stock_alert_notified",
		"product_id", payload.ProductID,
		"variant_id", payload.VariantID,
		"product_name", product.Name,
		"stock", payload.Stock,
		"threshold", payload.Threshold,
	)
	return nil
}
