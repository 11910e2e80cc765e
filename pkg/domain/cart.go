package domain

// CartItem represents a single normalized cart row captured from a retailer page.
// Constructed only by the extraction engine; price is always positive and the
// title is never empty. Quantity defaults to 1 because it is not reliably
// extractable across retailers.
type CartItem struct {
	ProductTitle string  `json:"productTitle"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	URL          string  `json:"url,omitempty"`
}

// UserContext carries the geographic defaults sent with an optimization request.
type UserContext struct {
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// OptimizeRequest is the payload posted to the optimization boundary.
type OptimizeRequest struct {
	UserContext    UserContext `json:"userContext"`
	SourceRetailer string      `json:"sourceRetailer"`
	Items          []CartItem  `json:"items"`
}

// Alternative describes a cheaper equivalent product found by the
// optimization service.
type Alternative struct {
	ProductTitle string  `json:"productTitle"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	Retailer     string  `json:"retailer"`
	URL          string  `json:"url"`
}

// Recommendation pairs an original cart item with its cheapest alternative.
// Items with no better alternative are omitted from the result entirely.
type Recommendation struct {
	OriginalItem        CartItem    `json:"originalItem"`
	CheapestAlternative Alternative `json:"cheapestAlternative"`
}

// OptimizationResult is the parsed response of a successful optimization call.
type OptimizationResult struct {
	OriginalTotal   float64          `json:"originalTotal"`
	OptimizedTotal  float64          `json:"optimizedTotal"`
	Currency        string           `json:"currency"`
	TotalSavings    float64          `json:"totalSavings"`
	Recommendations []Recommendation `json:"recommendations"`
}
