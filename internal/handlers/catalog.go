package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"labubu_store/internal/listing"
	"labubu_store/internal/models"
)

const (
	featuredCount = 4
	relatedCount  = 4
)

// GET /api/home
func (h *Handler) Home(c *gin.Context) {
	featured, err := h.Products.Featured(c.Request.Context(), featuredCount)
	if err != nil {
		fail(c, err)
		return
	}
	series, err := h.Products.Series(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"featured": featured, "series": series})
}

// GET /api/products/series
func (h *Handler) Series(c *gin.Context) {
	series, err := h.Products.Series(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

type listingQuery struct {
	Search string   `json:"search"`
	Series []string `json:"series"`
	Sort   string   `json:"sort"`
	Page   int      `json:"page"`
}

type listingResponse struct {
	listing.Page
	Window []listing.PageLink `json:"window"`
	Query  listingQuery       `json:"query"`
	Sorts  []listing.SortKey  `json:"sorts"`
}

// GET /api/products?search=&series=&sort=&page=
// series may repeat or be comma separated.
func (h *Handler) ListProducts(c *gin.Context) {
	state := listing.NewState().WithSearch(c.Query("search"))
	for _, name := range seriesParams(c) {
		state = state.WithSeries(name, true)
	}
	key, err := listing.ParseSortKey(c.Query("sort"))
	if err != nil {
		fail(c, err)
		return
	}
	state = state.WithSort(key)

	page := 1
	if raw := c.Query("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil {
			badRequest(c, "page must be a number")
			return
		}
	}

	products, err := h.Products.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	result := listing.Paginate(products, state.Query(), h.PageSize)
	if page != 1 {
		if state, err = state.WithPage(page, result.TotalPages); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "totalPages": result.TotalPages})
			return
		}
		result = listing.Paginate(products, state.Query(), h.PageSize)
	}

	c.JSON(http.StatusOK, listingResponse{
		Page:   result,
		Window: listing.Window(state.Page, result.TotalPages),
		Query: listingQuery{
			Search: state.SearchTerm,
			Series: append([]string{}, state.Series...),
			Sort:   string(state.Sort),
			Page:   state.Page,
		},
		Sorts: listing.SortKeys,
	})
}

func seriesParams(c *gin.Context) []string {
	var out []string
	for _, v := range c.QueryArray("series") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

type productResponse struct {
	*models.ProductDetail
	Rating      models.ProductRating `json:"rating"`
	Purchasable bool                 `json:"purchasable"`
}

// GET /api/products/:slug
func (h *Handler) GetProduct(c *gin.Context) {
	detail, err := h.Products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, productResponse{
		ProductDetail: detail,
		Rating:        detail.Rating(),
		Purchasable:   detail.Purchasable(),
	})
}

// GET /api/products/:slug/related
func (h *Handler) RelatedProducts(c *gin.Context) {
	related, err := h.Products.Related(c.Request.Context(), c.Param("slug"), relatedCount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, related)
}
