// Package listing turns the catalog plus the shopper's search, series filter,
// sort order and page into one page of products.
package listing

import (
	"errors"
	"sort"
	"strings"

	"labubu_store/internal/models"
)

const DefaultPageSize = 6

var (
	ErrUnknownSortKey = errors.New("unknown sort key")
	ErrPageOutOfRange = errors.New("page out of range")
)

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
)

var SortKeys = []SortKey{SortNewest, SortPriceAsc, SortPriceDesc, SortNameAsc}

// ParseSortKey maps an empty value to SortNewest.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortNewest, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrUnknownSortKey
}

type Query struct {
	SearchTerm string
	Series     map[string]bool
	Sort       SortKey
	Page       int
}

type Page struct {
	Items      []models.Product `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
	TotalCount int              `json:"totalCount"`
}

func MatchesSearch(p models.Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(term))
}

func MatchesSeries(p models.Product, series map[string]bool) bool {
	if len(series) == 0 {
		return true
	}
	return p.Series != "" && series[p.Series]
}

// Filter keeps the input order.
func Filter(products []models.Product, q Query) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if MatchesSearch(p, q.SearchTerm) && MatchesSeries(p, q.Series) {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a sorted copy. The sort is stable: for SortNewest the new
// arrivals come first and each group keeps the input order.
func Sort(products []models.Product, key SortKey) []models.Product {
	out := append([]models.Product(nil), products...)
	var less func(a, b models.Product) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b models.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b models.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortNameAsc:
		less = byName
	case SortNewest:
		less = func(a, b models.Product) bool { return a.IsNew && !b.IsNew }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// TotalPages is zero when there is nothing to show.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Paginate filters, sorts and slices products. It trusts q.Page: a page outside
// [1, TotalPages] yields no items, range checks belong to the caller (see State.WithPage).
func Paginate(products []models.Product, q Query, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	matched := Sort(Filter(products, q), q.Sort)

	page := Page{
		Items:      []models.Product{},
		Page:       q.Page,
		PageSize:   pageSize,
		TotalCount: len(matched),
		TotalPages: TotalPages(len(matched), pageSize),
	}
	if q.Page < 1 || q.Page > page.TotalPages {
		return page
	}
	start := (q.Page - 1) * pageSize
	end := min(start+pageSize, len(matched))
	page.Items = matched[start:end]
	return page
}

func byName(a, b models.Product) bool {
	la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if la != lb {
		return la < lb
	}
	return a.Name < b.Name
}
