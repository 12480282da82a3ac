package domain

// Restaurant is a catalog entry with its derived sentiment summary.
// AverageRating and TotalReviews always mirror SentimentSummary.
type Restaurant struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Cuisine          string           `json:"cuisine"`
	AverageRating    float64          `json:"averageRating"`
	TotalReviews     int              `json:"totalReviews"`
	SentimentSummary SentimentSummary `json:"sentimentSummary"`
}

// WithSummary returns a copy of r carrying s.
func (r Restaurant) WithSummary(s SentimentSummary) Restaurant {
	r.SentimentSummary = s
	r.AverageRating = s.AverageRating
	r.TotalReviews = s.Total
	return r
}
