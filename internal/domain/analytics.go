package domain

// SentimentSummary counts labels and averages ratings over a set of reviews.
type SentimentSummary struct {
	Positive      int     `json:"positive"`
	Negative      int     `json:"negative"`
	Neutral       int     `json:"neutral"`
	Total         int     `json:"total"`
	AverageRating float64 `json:"averageRating"`
}

// Analytics is the global stat-card view.
type Analytics struct {
	TotalReviews    int     `json:"totalReviews"`
	Positive        int     `json:"positive"`
	Negative        int     `json:"negative"`
	Neutral         int     `json:"neutral"`
	PositivePercent int     `json:"positivePercent"`
	NegativePercent int     `json:"negativePercent"`
	AverageRating   float64 `json:"averageRating"`
}

// SentimentTrend counts labels within one calendar month (YYYY-MM).
type SentimentTrend struct {
	Month    string `json:"month"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Neutral  int    `json:"neutral"`
}

// CategoryBreakdown counts positive and negative reviews for one category.
// Neutral reviews are tallied but not serialized.
type CategoryBreakdown struct {
	Name     string `json:"name"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Neutral  int    `json:"-"`
}
