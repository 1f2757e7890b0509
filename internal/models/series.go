package models

// SeriesOption is a listing filter entry; Count may be zero.
type SeriesOption struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
