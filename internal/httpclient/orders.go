package httpclient

import (
	"context"
	"net/http"

	"storefront-shell/internal/domain"
)

// CreateOrder submits the cart payload with the session token.
func (c *Client) CreateOrder(ctx context.Context, payload domain.OrderPayload) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders", c.sessionToken(), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders/my", c.sessionToken(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
