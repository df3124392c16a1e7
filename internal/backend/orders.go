package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/muadee/storefront-gateway/pkg/auth"
	"github.com/muadee/storefront-gateway/pkg/enums"
	"github.com/muadee/storefront-gateway/pkg/types"
)

// OrderPage is one page of the shopper's order history.
type OrderPage struct {
	Orders   []types.Order
	LastPage int
}

// ListOrders fetches one page of order history.
func (c *Client) ListOrders(ctx context.Context, ac auth.Context, page int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	var wire orderPageWire
	if err := c.do(ctx, ac, http.MethodGet, "list_orders", fmt.Sprintf("/orders?page=%d", page), nil, &wire); err != nil {
		return nil, err
	}
	orders := make([]types.Order, 0, len(wire.Data.Data))
	for _, entry := range wire.Data.Data {
		orders = append(orders, entry.toOrder())
	}
	lastPage := wire.Data.LastPage
	if lastPage < 1 {
		lastPage = 1
	}
	return &OrderPage{Orders: orders, LastPage: lastPage}, nil
}

// GetOrder fetches the full order detail by its human-readable code.
func (c *Client) GetOrder(ctx context.Context, ac auth.Context, code string) (*types.Order, error) {
	var wire orderDetailWire
	if err := c.do(ctx, ac, http.MethodGet, "get_order", "/orders/"+code, nil, &wire); err != nil {
		return nil, err
	}
	order := wire.Data.toOrder()
	return &order, nil
}

// ReorderItem is one purchasable line pushed back into the cart.
type ReorderItem struct {
	VariantID int64
	Quantity  int
}

// ReorderToCart inserts the given lines into the shopper's upstream cart.
func (c *Client) ReorderToCart(ctx context.Context, ac auth.Context, items []ReorderItem) error {
	req := reorderToCartRequest{Items: make([]reorderItemWire, 0, len(items))}
	for _, item := range items {
		req.Items = append(req.Items, reorderItemWire{VariantID: item.VariantID, Quantity: item.Quantity})
	}
	return c.do(ctx, ac, http.MethodPost, "reorder_to_cart", "/orders/reorder", req, nil)
}

// ReorderResult reports the outcome of re-placing an order. A zero ID means
// the upstream did not return a distinguishable new order.
type ReorderResult struct {
	OrderID int64
	Message string
}

// ReorderFromOrder asks the upstream to re-place an order wholesale.
func (c *Client) ReorderFromOrder(ctx context.Context, ac auth.Context, orderID int64) (*ReorderResult, error) {
	var wire reorderFromOrderWire
	if err := c.do(ctx, ac, http.MethodPost, "reorder_from_order", fmt.Sprintf("/orders/%d/reorder", orderID), nil, &wire); err != nil {
		return nil, err
	}
	return &ReorderResult{OrderID: wire.ID, Message: wire.Message}, nil
}

// AssignPaymentMethod sets the chosen payment method on the order.
func (c *Client) AssignPaymentMethod(ctx context.Context, ac auth.Context, orderID int64, method enums.PaymentMethod) error {
	req := paymentMethodRequest{MethodCode: method.String()}
	return c.do(ctx, ac, http.MethodPatch, "assign_payment_method", fmt.Sprintf("/orders/%d/payment-method", orderID), req, nil)
}

// UpdateStatus mutates the raw order and payment status strings upstream.
func (c *Client) UpdateStatus(ctx context.Context, ac auth.Context, orderID int64, status, paymentStatus string) error {
	req := statusUpdateRequest{Status: status, PaymentStatus: paymentStatus}
	return c.do(ctx, ac, http.MethodPatch, "update_status", fmt.Sprintf("/orders/%d/status", orderID), req, nil)
}

// RetryPaymentURL requests a fresh gateway payment URL for the order.
func (c *Client) RetryPaymentURL(ctx context.Context, ac auth.Context, orderID int64) (string, error) {
	var wire paymentURLWire
	if err := c.do(ctx, ac, http.MethodPost, "retry_payment_url", fmt.Sprintf("/payments/retry/%d", orderID), nil, &wire); err != nil {
		return "", err
	}
	return wire.PaymentURL, nil
}

// CancelOrder marks the order cancelled upstream.
func (c *Client) CancelOrder(ctx context.Context, ac auth.Context, orderID int64, code string) error {
	req := cancelOrderRequest{ID: orderID, Code: code}
	return c.do(ctx, ac, http.MethodPost, "cancel_order", "/orders/cancel", req, nil)
}
