package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labubu_store/internal/middleware"
)

// GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	snap, err := h.Carts.Get(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Slug      string `json:"slug"`
	Quantity  int    `json:"quantity"`
}

// POST /api/cart/items
func (h *Handler) AddCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	ref := req.Slug
	if ref == "" {
		ref = req.ProductID
	}
	if ref == "" {
		badRequest(c, "productId or slug is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	snap, err := h.Carts.Add(c.Request.Context(), middleware.SessionID(c), ref, req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// PATCH /api/cart/items/:lineId
// Quantities below 1 leave the line as it is.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "quantity is required")
		return
	}
	snap, err := h.Carts.SetQuantity(c.Request.Context(), middleware.SessionID(c), c.Param("lineId"), *req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// DELETE /api/cart/items/:lineId
func (h *Handler) RemoveCartItem(c *gin.Context) {
	snap, err := h.Carts.Remove(c.Request.Context(), middleware.SessionID(c), c.Param("lineId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	snap, err := h.Carts.Clear(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
