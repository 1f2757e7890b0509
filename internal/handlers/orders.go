package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labubu_store/internal/mailer"
	"labubu_store/internal/middleware"
)

// GET /api/orders/:id/qr
func (h *Handler) OrderQRCode(c *gin.Context) {
	order, err := h.Checkout.Confirmation(c.Request.Context(), middleware.SessionID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	png, err := mailer.QRCode(order.ConfirmationID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
