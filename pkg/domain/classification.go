package domain

// Category is the closed set of query categories the router understands.
type Category string

const (
	CategoryTechnical Category = "Technical"
	CategoryBilling   Category = "Billing"
	CategoryGeneral   Category = "General"
)

// Categories lists the known categories.
var Categories = []Category{CategoryTechnical, CategoryBilling, CategoryGeneral}

// Sentiment is the closed set of sentiments the router understands.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
	// SentimentUnknown is produced when the classifier text names no known sentiment.
	SentimentUnknown Sentiment = "Unknown"
)

// Sentiments lists the sentiments a classifier is asked to choose from.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}
