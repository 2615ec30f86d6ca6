package queue

import (
	"encoding/json"

	"github.com/tiemhang/tiemhang-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusNotify notifies the customer about an order status change.
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
	// TaskOrderPaymentTimeout cancels an unpaid online order after its deadline.
	TaskOrderPaymentTimeout = constants.TaskOrderPaymentTimeout
	// TaskStockAlertNotify tells staff about a low-stock product.
	TaskStockAlertNotify = constants.TaskStockAlertNotify
)

// OrderStatusNotifyPayload carries an order status change event.
type OrderStatusNotifyPayload struct {
	OrderID  uint   `json:"order_id"`
	OrderNo  string `json:"order_no"`
	Status   string `json:"status"`
	Previous string `json:"previous"`
}

// OrderPaymentTimeoutPayload carries a deferred payment deadline check.
type OrderPaymentTimeoutPayload struct {
	OrderID uint `json:"order_id"`
}

// StockAlertNotifyPayload carries a low-stock event.
type StockAlertNotifyPayload struct {
	ProductID uint `json:"product_id"`
	VariantID uint `json:"variant_id"`
	Stock     int  `json:"stock"`
	Threshold int  `json:"threshold"`
}

// NewOrderStatusNotifyTask builds a status notification task.
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}

// NewOrderPaymentTimeoutTask builds a payment deadline task.
func NewOrderPaymentTimeoutTask(payload OrderPaymentTimeoutPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPaymentTimeout, body), nil
}

// NewStockAlertNotifyTask builds a low-stock notification task.
func NewStockAlertNotifyTask(payload StockAlertNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockAlertNotify, body), nil
}
