package models

import "github.com/shopspring/decimal"

type Review struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Rating  int    `json:"rating"` // 1-5
	Comment string `json:"comment"`
	Date    string `json:"date"`
}

type ProductRating struct {
	AverageRating decimal.Decimal `json:"averageRating"`
	TotalReviews  int             `json:"totalReviews"`
}

// Rating averages the reviews to one decimal place; no reviews rate 0.
func (d ProductDetail) Rating() ProductRating {
	if len(d.Reviews) == 0 {
		return ProductRating{AverageRating: decimal.Zero}
	}
	sum := 0
	for _, r := range d.Reviews {
		sum += r.Rating
	}
	avg := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(d.Reviews)))).Round(1)
	return ProductRating{AverageRating: avg, TotalReviews: len(d.Reviews)}
}
