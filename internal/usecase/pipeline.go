package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kurvpilot/backend/internal/domain"
	"github.com/kurvpilot/backend/internal/infrastructure/nemlig"
)

// Pipeline drives the per-item resolution flow: one credential per batch,
// then for every item search -> filter -> select -> add-to-basket, strictly
// sequentially. The retailer API and the single engine instance are
// serially-reusable resources, so items are never processed in parallel.
type Pipeline struct {
	tokens   domain.TokenProvider
	search   domain.SearchClient
	basket   domain.BasketClient
	selector *Selector
	store    domain.ReportStore
}

// NewPipeline creates a pipeline with its collaborators
func NewPipeline(
	tokens domain.TokenProvider,
	search domain.SearchClient,
	basket domain.BasketClient,
	selector *Selector,
	store domain.ReportStore,
) *Pipeline {
	return &Pipeline{
		tokens:   tokens,
		search:   search,
		basket:   basket,
		selector: selector,
		store:    store,
	}
}

// Run processes the items and returns the batch report. Token acquisition
// failure is the one fatal error: it aborts the whole batch with zero item
// outcomes. Every other failure is isolated to its item and recorded as an
// outcome; the batch always completes once a credential is held.
func (p *Pipeline) Run(ctx context.Context, items []string) (*domain.BatchReport, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	report := &domain.BatchReport{
		ID:        uuid.NewString(),
		Items:     make([]domain.ItemOutcome, 0, len(items)),
		StartedAt: time.Now(),
	}

	cred, err := p.tokens.AcquireToken(ctx)
	if err != nil {
		log.Printf("[PIPELINE] Batch %s aborted: %v", report.ID, err)
		return nil, err
	}

	log.Printf("[PIPELINE] Batch %s: token acquired, processing %d items", report.ID, len(items))

	for i, item := range items {
		log.Printf("[PIPELINE] Batch %s: item %d/%d %q", report.ID, i+1, len(items), item)
		report.Record(p.processItem(ctx, cred, item))
	}

	report.CompletedAt = time.Now()

	// Hand the minimized projection to the persistence collaborator. A
	// store failure does not invalidate the run itself.
	if p.store != nil {
		if err := p.store.Save(ctx, report.Stored()); err != nil {
			log.Printf("[PIPELINE] Batch %s: failed to store report: %v", report.ID, err)
		}
	}

	log.Printf("[PIPELINE] Batch %s done: %d analyzed, %d failed, %d in basket",
		report.ID, report.Succeeded, report.Failed, report.AddedToBasket)

	return report, nil
}

// processItem runs one item through the pipeline stages and converts any
// failure into an outcome at this boundary. Nothing propagates past it.
func (p *Pipeline) processItem(ctx context.Context, cred domain.Credential, item string) domain.ItemOutcome {
	raw, err := p.search.Search(ctx, cred, nemlig.NewSearchQuery(item))
	if err != nil {
		return failureOutcome(item, err, 0)
	}

	catalog := nemlig.FilterCatalog(raw)

	selection, err := p.selector.Select(ctx, item, catalog)
	if err != nil {
		return failureOutcome(item, err, catalog.Count)
	}

	if selection.Product == nil {
		// The model's identifier matched nothing: a normal miss, reported
		// as a failure without touching the basket.
		return domain.ItemOutcome{
			Item:         item,
			Status:       domain.OutcomeFailure,
			Description:  fmt.Sprintf("⚠️ AI kunne ikke vælge et produkt for %q", item),
			ProductID:    selection.ProductID,
			ProductCount: catalog.Count,
		}
	}

	product := selection.Product

	if err := p.basket.AddToBasket(ctx, cred, product.ID); err != nil {
		return domain.ItemOutcome{
			Item:         item,
			Status:       domain.OutcomePartial,
			Description:  fmt.Sprintf("⚠️ Valgt: %s (%.2f kr) - kunne ikke tilføje til kurv", product.Name, product.Price),
			ProductID:    product.ID,
			ProductName:  product.Name,
			Price:        product.Price,
			ProductCount: catalog.Count,
		}
	}

	return domain.ItemOutcome{
		Item:         item,
		Status:       domain.OutcomeSuccess,
		Description:  fmt.Sprintf("✅ Valgt: %s (%.2f kr) - Tilføjet til kurv", product.Name, product.Price),
		ProductID:    product.ID,
		ProductName:  product.Name,
		Price:        product.Price,
		ProductCount: catalog.Count,
	}
}

// failureOutcome records a per-item error as a Failure outcome
func failureOutcome(item string, err error, productCount int) domain.ItemOutcome {
	return domain.ItemOutcome{
		Item:         item,
		Status:       domain.OutcomeFailure,
		Description:  fmt.Sprintf("Fejl for %q: %v", item, err),
		ProductCount: productCount,
	}
}
