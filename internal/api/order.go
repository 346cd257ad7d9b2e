package api

import (
	"context"
	"fmt"

	"github.com/HeatherCyber/BlitzBuy/internal/model"
)

// GetOrder returns one of the current user's orders. Rejections include
// not-found and not-yours; both surface as *APIError.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	if err := c.getJSON(ctx, c.apiURL(fmt.Sprintf("/orders/%d", orderID)), &o); err != nil {
		return model.Order{}, fmt.Errorf("get order %d: %w", orderID, err)
	}
	return o, nil
}

// ListOrders returns the current user's orders, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.getJSON(ctx, c.apiURL("/orders"), &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// PayOrder settles a pending-payment order. The backend rejects orders
// that are not in PendingPayment.
func (c *Client) PayOrder(ctx context.Context, orderID int64) error {
	if err := c.postJSON(ctx, c.apiURL(fmt.Sprintf("/orders/%d/pay", orderID)), nil, nil); err != nil {
		return fmt.Errorf("pay order %d: %w", orderID, err)
	}
	return nil
}
