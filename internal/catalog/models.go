package catalog

// Idea is a curated activity suggestion shown on the browse page.
type Idea struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Type          string  `json:"type"`
	City          string  `json:"city"`
	Country       string  `json:"country"`
	Price         float64 `json:"price"`
	PriceCategory string  `json:"price_category"`
	ImageURL      string  `json:"image_url"`
	Rating        float64 `json:"rating"`
}
