package domain

// Raw retailer response shapes. Only the fields the pipeline consumes are
// declared; everything else in the payload is ignored during decoding.

// RawAvailability carries stock information for a raw product record.
type RawAvailability struct {
	IsAvailableInStock bool `json:"IsAvailableInStock"`
}

// RawProduct is the retailer's full product record, reduced to the fields
// the filter projects into a FilteredProduct.
type RawProduct struct {
	ID             string           `json:"Id"`
	Name           string           `json:"Name"`
	Description    string           `json:"Description"`
	Availability   *RawAvailability `json:"Availability"`
	Price          float64          `json:"Price"`
	UnitPriceCalc  float64          `json:"UnitPriceCalc"`
	UnitPriceLabel string           `json:"UnitPriceLabel"`
	Labels         []string         `json:"Labels"`
	Campaign       *Campaign        `json:"Campaign"`
}

// RawProductList is the nested product container in a search response.
type RawProductList struct {
	Products []RawProduct `json:"Products"`
	NumFound int          `json:"NumFound"`
}

// RawSearchResponse is the top-level search payload. Products is nil when
// the response carried no product list at all.
type RawSearchResponse struct {
	Products *RawProductList `json:"Products"`
}

// TokenResponse is the payload of the retailer token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
