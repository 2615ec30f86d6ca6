package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/tiemhang/tiemhang-api/internal/constants"
	"github.com/tiemhang/tiemhang-api/internal/logger"
	"github.com/tiemhang/tiemhang-api/internal/models"
	"github.com/tiemhang/tiemhang-api/internal/queue"
	"github.com/tiemhang/tiemhang-api/internal/repository"
	"github.com/tiemhang/tiemhang-api/internal/shipping/ghn"

	"gorm.io/gorm"
)

// ShippingQuoter is the fee-quote gateway boundary.
type ShippingQuoter interface {
	Configured() bool
	QuoteFee(ctx context.Context, input ghn.QuoteInput) (*ghn.Quote, error)
}

// OrderConfig carries the order lifecycle tuning.
type OrderConfig struct {
	PaymentExpireMinutes int
	DefaultShippingFee   int64
	DefaultLeadtimeDays  int
}

// OrderService turns carts into orders. Creation is a single transaction
// covering the order header, its lines, every stock debit and its ledger row;
// gateway calls happen strictly outside the stock guard.
type OrderService struct {
	db            *gorm.DB
	orders        repository.OrderRepository
	carts         repository.CartRepository
	products      repository.ProductRepository
	variants      repository.ProductVariantRepository
	inventory     *InventoryService
	payments      *PaymentService
	notifications *NotificationService
	shipping      ShippingQuoter
	queue         *queue.Client
	cfg           OrderConfig
}

// NewOrderService creates the order service.
func NewOrderService(
	db *gorm.DB,
	orders repository.OrderRepository,
	carts repository.CartRepository,
	products repository.ProductRepository,
	variants repository.ProductVariantRepository,
	inventory *InventoryService,
	payments *PaymentService,
	notifications *NotificationService,
	shipping ShippingQuoter,
	queueClient *queue.Client,
	cfg OrderConfig,
) *OrderService {
	if cfg.PaymentExpireMinutes <= 0 {
		cfg.PaymentExpireMinutes = 15
	}
	if cfg.DefaultShippingFee < 0 {
		cfg.DefaultShippingFee = 0
	}
	return &OrderService{
		db:            db,
		orders:        orders,
		carts:         carts,
		products:      products,
		variants:      variants,
		inventory:     inventory,
		payments:      payments,
		notifications: notifications,
		shipping:      shipping,
		queue:         queueClient,
		cfg:           cfg,
	}
}

// CreateOrderInput is the order creation request.
type CreateOrderInput struct {
	ReceiverName    string
	ReceiverPhone   string
	ShippingAddress string
	DistrictID      int
	WardCode        string
	PaymentMethod   string
	ShippingFee     int64 // client-supplied fallback fee, whole VND
	Notes           string
	ClientIP        string
}

// CreateOrderResult is the order creation response.
type CreateOrderResult struct {
	Order      *models.Order
	Warnings   []string
	PaymentURL string
}

// CreateOrder validates and prices the caller's cart, quotes shipping,
// reserves stock and persists the order, then dispatches payment.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, input CreateOrderInput) (*CreateOrderResult, error) {
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, ErrAddressRequired
	}
	method := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if method != constants.PaymentMethodCOD && method != constants.PaymentMethodOnline {
		return nil, ErrPaymentMethod
	}

	cartItems, err := s.carts.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}

	cart, err := s.resolveAndPrice(cartItems)
	if err != nil {
		return nil, err
	}
	warnings := cart.Warnings

	// Shipping quote runs before any stock lock is taken.
	shippingFee, shippingWarnings := s.quoteShipping(ctx, cart, input)
	warnings = append(warnings, shippingWarnings...)

	total := orderTotal(cart.Subtotal, shippingFee)
	orderNo := generateOrderNo()

	order := &models.Order{
		OrderNo:         orderNo,
		UserID:          userID,
		Status:          constants.OrderStatusPending,
		PaymentMethod:   method,
		PaymentStatus:   constants.PaymentStatusPending,
		ReceiverName:    strings.TrimSpace(input.ReceiverName),
		ReceiverPhone:   strings.TrimSpace(input.ReceiverPhone),
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		DistrictID:      input.DistrictID,
		WardCode:        strings.TrimSpace(input.WardCode),
		Subtotal:        cart.Subtotal,
		ShippingFee:     shippingFee,
		TotalAmount:     total,
		Notes:           strings.TrimSpace(input.Notes),
	}
	if method == constants.PaymentMethodOnline {
		expires := time.Now().Add(time.Duration(s.cfg.PaymentExpireMinutes) * time.Minute)
		order.ExpiresAt = &expires
	}

	events, err := s.reserveAndPersist(order, cart, userID)
	if err != nil {
		return nil, err
	}

	for _, event := range events {
		s.inventory.emitAlert(event)
	}
	s.notifications.NotifyOrderStatus(order.ID, order.OrderNo, order.Status, "")

	result := &CreateOrderResult{Order: order, Warnings: warnings}
	if method == constants.PaymentMethodOnline {
		s.schedulePaymentTimeout(order)
		paymentURL, warning := s.payments.CreatePaymentURL(order, input.ClientIP)
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.PaymentURL = paymentURL
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", userID,
		"total", order.TotalAmount.String(),
		"payment_method", method)
	return result, nil
}

// resolveAndPrice re-validates every cart line against the live catalog and
// prices it. Stale cart state is never trusted.
func (s *OrderService) resolveAndPrice(cartItems []models.CartItem) (*PricedCart, error) {
	resolutions := make([]*Resolution, 0, len(cartItems))
	quantities := make([]int, 0, len(cartItems))
	for i := range cartItems {
		item := &cartItems[i]
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		product, err := s.products.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, ErrProductNotFound
		}

		var variant *models.ProductVariant
		if item.VariantID > 0 {
			variant, err = s.variants.GetByID(item.VariantID)
			if err != nil {
				return nil, err
			}
			if variant == nil || !variant.IsActive || variant.ProductID != product.ID {
				return nil, ErrVariantNotFound
			}
		} else if product.HasVariants {
			return nil, ErrIncompleteSelection
		}

		resolutions = append(resolutions, &Resolution{Product: product, Variant: variant})
		quantities = append(quantities, item.Quantity)
	}
	return priceCart(resolutions, quantities)
}

// quoteShipping asks the gateway for a fee, falling back to the client's fee
// and then the configured default. Fallbacks surface as warnings, never as
// errors.
func (s *OrderService) quoteShipping(ctx context.Context, cart *PricedCart, input CreateOrderInput) (models.Money, []string) {
	if s.shipping != nil && s.shipping.Configured() && input.DistrictID > 0 && strings.TrimSpace(input.WardCode) != "" {
		weight := 0
		for _, line := range cart.Lines {
			weight += line.Product.WeightGram * line.Quantity
		}
		quote, err := s.shipping.QuoteFee(ctx, ghn.QuoteInput{
			ToDistrictID: input.DistrictID,
			ToWardCode:   input.WardCode,
			WeightGram:   weight,
			InsuranceVND: cart.Subtotal.IntPart(),
		})
		if err == nil && quote != nil {
			return models.NewMoneyFromInt(quote.Fee), nil
		}
		logger.Warnw("shipping_quote_failed", "district_id", input.DistrictID, "error", err)
	}

	if input.ShippingFee > 0 {
		return models.NewMoneyFromInt(input.ShippingFee),
			[]string{"shipping fee not quoted; using submitted fee"}
	}
	return models.NewMoneyFromInt(s.cfg.DefaultShippingFee),
		[]string{fmt.Sprintf("shipping fee not quoted; using default fee, estimated %d days", s.cfg.DefaultLeadtimeDays)}
}

// reserveAndPersist runs the whole-order reservation: under the stock guard
// for every line, one transaction debits each counter, appends its ledger row
// and writes the order header, lines and cart cleanup. Any line failure rolls
// the whole attempt back, leaving zero movements behind.
func (s *OrderService) reserveAndPersist(order *models.Order, cart *PricedCart, userID uint) ([]*alertEvent, error) {
	keys := make([]string, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		keys = append(keys, stockKey(line.Product.ID, variantID(line.Variant)))
	}
	unlock := s.inventory.guard.LockAll(keys)
	defer unlock()

	var events []*alertEvent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.revalidateLines(tx, cart); err != nil {
			return err
		}

		for _, line := range cart.Lines {
			_, event, err := s.inventory.applyMovement(tx,
				stockLine{line.Product.ID, variantID(line.Variant)},
				-line.Quantity, nil,
				constants.MovementTypeOut, constants.MovementReasonOrderPlaced,
				order.OrderNo, 0, "")
			if err != nil {
				return err
			}
			if event != nil {
				events = append(events, event)
			}
		}

		if err := s.orders.WithTx(tx).Create(order); err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(cart.Lines))
		for _, line := range cart.Lines {
			item := models.OrderItem{
				OrderID:     order.ID,
				ProductID:   line.Product.ID,
				VariantID:   variantID(line.Variant),
				ProductName: line.Product.Name,
				UnitPrice:   line.UnitPrice,
				Quantity:    line.Quantity,
				LineTotal:   line.LineTotal,
			}
			if line.Variant != nil {
				item.VariantLabel = line.Variant.Attributes.Label()
				item.SKU = line.Variant.SKU
			}
			items = append(items, item)
		}
		if err := s.orders.WithTx(tx).CreateItems(items); err != nil {
			return err
		}
		order.Items = items

		return s.carts.WithTx(tx).DeleteByUser(userID)
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// revalidateLines re-checks active flags inside the reservation transaction.
func (s *OrderService) revalidateLines(tx *gorm.DB, cart *PricedCart) error {
	for _, line := range cart.Lines {
		product, err := s.products.WithTx(tx).GetByID(line.Product.ID)
		if err != nil {
			return err
		}
		if product == nil || !product.IsActive {
			return ErrProductNotFound
		}
		if line.Variant != nil {
			variant, err := s.variants.WithTx(tx).GetByID(line.Variant.ID)
			if err != nil {
				return err
			}
			if variant == nil || !variant.IsActive {
				return ErrVariantNotFound
			}
		}
	}
	return nil
}

// schedulePaymentTimeout enqueues the deferred cancel check for an online
// order, best effort.
func (s *OrderService) schedulePaymentTimeout(order *models.Order) {
	if s.queue == nil || order.ExpiresAt == nil {
		return
	}
	delay := time.Until(*order.ExpiresAt)
	err := s.queue.EnqueueOrderPaymentTimeout(queue.OrderPaymentTimeoutPayload{OrderID: order.ID}, delay)
	if err != nil {
		logger.Warnw("payment_timeout_enqueue_failed", "order_id", order.ID, "error", err)
	}
}

// GetUserOrder fetches one order owned by the caller.
func (s *OrderService) GetUserOrder(orderID, userID uint) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListUserOrders fetches the caller's orders.
func (s *OrderService) ListUserOrders(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orders.List(repository.OrderListFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

// AdminListOrders fetches orders with admin filters.
func (s *OrderService) AdminListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orders.List(filter)
}

// GetOrder fetches one order without ownership checks, for admin use.
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// generateOrderNo builds a date-prefixed human-presentable order number with
// random digits.
func generateOrderNo() string {
	now := time.Now()
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	suffix := int64(now.Nanosecond() % 1000000)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("ORD%s%06d", now.Format("20060102150405"), suffix)
}
