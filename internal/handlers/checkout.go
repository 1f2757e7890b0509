package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labubu_store/internal/checkout"
	"labubu_store/internal/middleware"
	"labubu_store/internal/models"
)

// GET /api/checkout
func (h *Handler) GetCheckout(c *gin.Context) {
	view, err := h.Checkout.State(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/checkout/shipping-address
func (h *Handler) SubmitShipping(c *gin.Context) {
	var form checkout.ShippingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	out, err := h.Checkout.SubmitShipping(c.Request.Context(), middleware.SessionID(c), form)
	respond(c, out, err)
}

// POST /api/checkout/shipping-method
func (h *Handler) SelectShippingMethod(c *gin.Context) {
	var req struct {
		Method models.ShippingMethod `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "method is required")
		return
	}
	out, err := h.Checkout.SelectShippingMethod(c.Request.Context(), middleware.SessionID(c), req.Method)
	respond(c, out, err)
}

// POST /api/checkout/payment
func (h *Handler) SubmitPayment(c *gin.Context) {
	var form checkout.PaymentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	out, err := h.Checkout.SubmitPayment(c.Request.Context(), middleware.SessionID(c), form)
	if err == nil && out.Order != nil {
		c.JSON(http.StatusCreated, out)
		return
	}
	respond(c, out, err)
}

// POST /api/checkout/step
func (h *Handler) OpenStep(c *gin.Context) {
	var req struct {
		Step checkout.Step `json:"step" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "step is required")
		return
	}
	out, err := h.Checkout.Open(c.Request.Context(), middleware.SessionID(c), req.Step)
	respond(c, out, err)
}

// respond sends field errors as 422 with the unchanged view.
func respond(c *gin.Context, out checkout.Outcome, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	if len(out.Errors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, out)
		return
	}
	c.JSON(http.StatusOK, out)
}
