package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labubu_store/internal/cart"
	"labubu_store/internal/catalog"
	"labubu_store/internal/checkout"
	"labubu_store/internal/listing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFailStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{catalog.ErrProductNotFound, http.StatusNotFound},
		{errors.Wrap(cart.ErrLineNotFound, "set quantity"), http.StatusNotFound},
		{checkout.ErrOrderNotFound, http.StatusNotFound},
		{checkout.ErrStepLocked, http.StatusConflict},
		{checkout.ErrEmptyCart, http.StatusConflict},
		{cart.ErrOutOfStock, http.StatusConflict},
		{listing.ErrUnknownSortKey, http.StatusBadRequest},
		{checkout.ErrUnknownShippingMethod, http.StatusBadRequest},
		{errors.New("redis down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			fail(c, tt.err)
			assert.Equal(t, tt.status, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestInternalErrorsAreHidden(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fail(c, errors.New("dial tcp 10.0.0.1:6379: refused"))
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestSeriesParams(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/products?series=Summer+Fun,+Spooky+Cute&series=Dreamy+Series&series=", nil)
	assert.Equal(t, []string{"Summer Fun", "Spooky Cute", "Dreamy Series"}, seriesParams(c))
}
