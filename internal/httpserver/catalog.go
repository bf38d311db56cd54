package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront-shell/internal/domain"
)

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), domain.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *handlers) myOrders(c *gin.Context) {
	if !h.session.Snapshot().Authenticated() {
		writeError(c, domain.ErrCredentialRejected)
		return
	}
	orders, err := h.orders.MyOrders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}
