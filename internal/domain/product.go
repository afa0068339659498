package domain

// Campaign holds promotional pricing attached to a product. It is only
// present when the retailer's raw record carried campaign data.
type Campaign struct {
	MinQuantity     int     `json:"MinQuantity"`
	TotalPrice      float64 `json:"TotalPrice"`
	CampaignPrice   float64 `json:"CampaignPrice"`
	Type            string  `json:"Type"`
	DiscountSavings float64 `json:"DiscountSavings"`
}

// FilteredProduct is the reduced projection of a retailer product record:
// only the fields the selector and the UI need. JSON field names keep the
// retailer's casing because the catalog is serialized verbatim into the
// model prompt.
type FilteredProduct struct {
	ID             string    `json:"Id"`
	Name           string    `json:"Name"`
	Description    string    `json:"Description"`
	InStock        bool      `json:"IsAvailableInStock"`
	Price          float64   `json:"Price"`
	UnitPrice      float64   `json:"UnitPriceCalc"`
	UnitPriceLabel string    `json:"UnitPriceLabel"`
	Labels         []string  `json:"Labels"`
	Campaign       *Campaign `json:"Campaign,omitempty"`
}

// Catalog is an ordered list of filtered products. Count always equals
// len(Products).
type Catalog struct {
	Products []FilteredProduct `json:"Products"`
	Count    int               `json:"NumFound"`
}

// FindByID returns the product with the given identifier, or nil when no
// product matches. Matching is exact string comparison.
func (c *Catalog) FindByID(id string) *FilteredProduct {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i]
		}
	}
	return nil
}

// SelectionResult is the outcome of asking the model to pick a product.
// Product is nil when the returned identifier matched nothing in the
// catalog; that is a normal result, not an error.
type SelectionResult struct {
	ProductID string           `json:"productId"`
	Product   *FilteredProduct `json:"product,omitempty"`
}

// SearchQuery carries a search term together with the per-request opaque
// parameters the retailer API expects.
type SearchQuery struct {
	Text        string
	Timestamp   string // correlation string, unique per request
	TimeslotUTC string // current date+hour slot
}
