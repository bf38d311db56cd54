package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront-shell/internal/domain"
	"storefront-shell/internal/httpclient"
	"storefront-shell/internal/service/cart"
)

type cartView struct {
	Items  []domain.LineItem `json:"items"`
	Count  int               `json:"count"`
	Total  float64           `json:"total"`
	Status cart.Status       `json:"status"`
}

type addItemRequest struct {
	ProductID domain.ID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *handlers) cartView() cartView {
	items := h.cart.Items()
	if items == nil {
		items = []domain.LineItem{}
	}
	return cartView{
		Items:  items,
		Count:  h.cart.Count(),
		Total:  h.cart.Total(),
		Status: h.cart.Status(),
	}
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartView())
}

func (h *handlers) clearCart(c *gin.Context) {
	h.cart.Clear()
	c.Status(http.StatusNoContent)
}

// addItem snapshots the product as currently served by the storefront API.
func (h *handlers) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		h.trackConnection(err)
		writeError(c, err)
		return
	}
	h.cart.SetConnectionStatus(cart.ConnectionConnected)
	line, err := h.cart.AddItem(*product, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h *handlers) setQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if !h.cart.SetQuantity(domain.ID(c.Param("id")), *req.Quantity) {
		writeError(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, h.cartView())
}

func (h *handlers) removeItem(c *gin.Context) {
	if !h.cart.RemoveItem(domain.ID(c.Param("id"))) {
		writeError(c, domain.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) cartPayload(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart.ToOrderPayload())
}

func (h *handlers) validateCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart.Validate())
}

func (h *handlers) cartSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart.Summary())
}

// checkout submits the cart as an order and clears it once the API accepts it.
func (h *handlers) checkout(c *gin.Context) {
	if !h.session.Snapshot().Authenticated() {
		writeError(c, domain.ErrCredentialRejected)
		return
	}
	if v := h.cart.Validate(); !v.IsValid {
		c.JSON(http.StatusUnprocessableEntity, v)
		return
	}
	if !h.cart.BeginProcessing() {
		c.JSON(http.StatusConflict, gin.H{"error": "checkout already in progress"})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), h.cart.ToOrderPayload())
	if err != nil {
		h.trackConnection(err)
		h.cart.AbortProcessing("Purchase failed: " + failureReason(err))
		writeError(c, err)
		return
	}
	h.cart.SetConnectionStatus(cart.ConnectionConnected)
	h.cart.Clear()
	h.cart.SetProcessing(false)
	// stock levels moved
	h.catalog.Forget()
	c.JSON(http.StatusCreated, order)
}

func (h *handlers) trackConnection(err error) {
	if errors.Is(err, httpclient.ErrUnavailable) {
		h.cart.SetConnectionStatus(cart.ConnectionDisconnected)
	}
}

func failureReason(err error) string {
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	_, message := errorStatus(err)
	return message
}
