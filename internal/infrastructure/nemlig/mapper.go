package nemlig

import (
	"github.com/kurvpilot/backend/internal/domain"
)

// FilterCatalog reduces a raw search response to the catalog projection the
// selector works with. It is a pure function and never fails: a response
// without a product list yields an empty catalog, and malformed optional
// fields degrade to defaults (out of stock, no labels).
func FilterCatalog(resp *domain.RawSearchResponse) domain.Catalog {
	if resp == nil || resp.Products == nil {
		return domain.Catalog{Products: []domain.FilteredProduct{}, Count: 0}
	}

	products := make([]domain.FilteredProduct, 0, len(resp.Products.Products))
	for _, raw := range resp.Products.Products {
		products = append(products, filterProduct(raw))
	}

	return domain.Catalog{
		Products: products,
		Count:    len(products),
	}
}

// filterProduct projects one raw record. Campaign is carried over only when
// the raw record had one.
func filterProduct(raw domain.RawProduct) domain.FilteredProduct {
	inStock := false
	if raw.Availability != nil {
		inStock = raw.Availability.IsAvailableInStock
	}

	labels := raw.Labels
	if labels == nil {
		labels = []string{}
	}

	filtered := domain.FilteredProduct{
		ID:             raw.ID,
		Name:           raw.Name,
		Description:    raw.Description,
		InStock:        inStock,
		Price:          raw.Price,
		UnitPrice:      raw.UnitPriceCalc,
		UnitPriceLabel: raw.UnitPriceLabel,
		Labels:         labels,
	}

	if raw.Campaign != nil {
		campaign := *raw.Campaign
		filtered.Campaign = &campaign
	}

	return filtered
}
