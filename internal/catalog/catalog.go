// Package catalog serves the storefront's read-only product fixtures.
package catalog

import (
	"context"
	"errors"
	"sort"

	"labubu_store/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

// Repository is the read side of the product catalog.
type Repository interface {
	List(ctx context.Context) ([]models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.ProductDetail, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Series(ctx context.Context) ([]models.SeriesOption, error)
	Featured(ctx context.Context, n int) ([]models.Product, error)
	Related(ctx context.Context, slug string, n int) ([]models.Product, error)
}

type FixtureStore struct {
	details []models.ProductDetail
	series  []string
	bySlug  map[string]int
	byID    map[string]int
}

func NewFixtureStore() *FixtureStore {
	return NewStore(fixtureDetails(), seriesOptions)
}

// NewStore builds a store over the given records; order is kept as listing order.
func NewStore(details []models.ProductDetail, series []string) *FixtureStore {
	s := &FixtureStore{
		details: details,
		series:  series,
		bySlug:  make(map[string]int, len(details)),
		byID:    make(map[string]int, len(details)),
	}
	for i, d := range details {
		s.bySlug[d.Slug] = i
		s.byID[d.ID] = i
	}
	return s
}

func (s *FixtureStore) List(_ context.Context) ([]models.Product, error) {
	out := make([]models.Product, len(s.details))
	for i, d := range s.details {
		out[i] = d.Product
	}
	return out, nil
}

func (s *FixtureStore) GetBySlug(_ context.Context, slug string) (*models.ProductDetail, error) {
	i, ok := s.bySlug[slug]
	if !ok {
		return nil, ErrProductNotFound
	}
	d := cloneDetail(s.details[i])
	return &d, nil
}

func (s *FixtureStore) GetByID(_ context.Context, id string) (*models.Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := s.details[i].Product
	return &p, nil
}

// Series returns every filter option, including series with no products.
func (s *FixtureStore) Series(_ context.Context) ([]models.SeriesOption, error) {
	counts := make(map[string]int)
	for _, d := range s.details {
		if d.Series != "" {
			counts[d.Series]++
		}
	}
	out := make([]models.SeriesOption, 0, len(s.series))
	seen := make(map[string]bool, len(s.series))
	for _, name := range s.series {
		out = append(out, models.SeriesOption{Name: name, Count: counts[name]})
		seen[name] = true
	}
	for _, d := range s.details {
		if d.Series != "" && !seen[d.Series] {
			out = append(out, models.SeriesOption{Name: d.Series, Count: counts[d.Series]})
			seen[d.Series] = true
		}
	}
	return out, nil
}

// Featured picks new arrivals first, then the rest in listing order.
func (s *FixtureStore) Featured(ctx context.Context, n int) ([]models.Product, error) {
	all, _ := s.List(ctx)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].IsNew && !all[j].IsNew
	})
	return limit(all, n), nil
}

// Related lists products of the same series first, then the others.
func (s *FixtureStore) Related(ctx context.Context, slug string, n int) ([]models.Product, error) {
	i, ok := s.bySlug[slug]
	if !ok {
		return nil, ErrProductNotFound
	}
	series := s.details[i].Series

	var same, other []models.Product
	for _, d := range s.details {
		if d.Slug == slug {
			continue
		}
		if series != "" && d.Series == series {
			same = append(same, d.Product)
		} else {
			other = append(other, d.Product)
		}
	}
	return limit(append(same, other...), n), nil
}

func limit(products []models.Product, n int) []models.Product {
	if n >= 0 && len(products) > n {
		return products[:n]
	}
	return products
}

func cloneDetail(d models.ProductDetail) models.ProductDetail {
	d.Images = append(make([]string, 0, len(d.Images)), d.Images...)
	d.Specifications = append(make([]models.Specification, 0, len(d.Specifications)), d.Specifications...)
	d.Tags = append([]string(nil), d.Tags...)
	d.Reviews = append(make([]models.Review, 0, len(d.Reviews)), d.Reviews...)
	return d
}
