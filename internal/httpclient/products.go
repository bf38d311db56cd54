package httpclient

import (
	"context"
	"net/http"
	"net/url"

	"storefront-shell/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", c.sessionToken(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct returns domain.ErrNotFound for an unknown id.
func (c *Client) GetProduct(ctx context.Context, id domain.ID) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id.String()), c.sessionToken(), nil, &out); err != nil {
		if StatusOf(err) == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}
