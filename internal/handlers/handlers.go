// Package handlers exposes the storefront over HTTP/JSON.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"labubu_store/internal/cart"
	"labubu_store/internal/catalog"
	"labubu_store/internal/checkout"
	"labubu_store/internal/events"
	"labubu_store/internal/listing"
	"labubu_store/internal/middleware"
)

type Handler struct {
	Products      catalog.Repository
	Carts         *cart.Service
	Checkout      *checkout.Service
	Tokens        *middleware.SessionTokens
	Notifications events.Subscriber
	PageSize      int
}

// fail maps domain errors onto HTTP statuses.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, checkout.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, checkout.ErrStepLocked),
		errors.Is(err, checkout.ErrFlowCompleted),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, cart.ErrOutOfStock):
		status = http.StatusConflict
	case errors.Is(err, listing.ErrUnknownSortKey),
		errors.Is(err, listing.ErrPageOutOfRange),
		errors.Is(err, checkout.ErrUnknownStep),
		errors.Is(err, checkout.ErrUnknownShippingMethod):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
