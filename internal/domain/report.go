package domain

import (
	"fmt"
	"strings"
	"time"
)

// OutcomeStatus classifies what happened to a single requested item.
type OutcomeStatus string

const (
	// OutcomeSuccess means a product was chosen and added to the basket
	OutcomeSuccess OutcomeStatus = "success"

	// OutcomePartial means a product was chosen but the basket add failed
	OutcomePartial OutcomeStatus = "partial"

	// OutcomeFailure means no product made it past selection for this item
	OutcomeFailure OutcomeStatus = "failure"
)

// ItemOutcome records the result for one requested grocery item. Exactly one
// outcome is produced per item, in request order.
type ItemOutcome struct {
	Item         string        `json:"item"`
	Status       OutcomeStatus `json:"status"`
	Description  string        `json:"description"`
	ProductID    string        `json:"productId,omitempty"`
	ProductName  string        `json:"productName,omitempty"`
	Price        float64       `json:"price,omitempty"`
	ProductCount int           `json:"productCount"`
}

// BatchReport aggregates the outcomes of one pipeline run. It is built fresh
// per run, handed to the report store, and not referenced afterwards by the
// pipeline.
type BatchReport struct {
	ID            string        `json:"id"`
	Items         []ItemOutcome `json:"items"`
	Succeeded     int           `json:"succeeded"`
	Failed        int           `json:"failed"`
	AddedToBasket int           `json:"addedToBasket"`
	StartedAt     time.Time     `json:"startedAt"`
	CompletedAt   time.Time     `json:"completedAt"`
}

// Record appends an outcome and updates the aggregate counts. Success and
// partial outcomes both count as "analyzed" successes; only full successes
// count toward the basket total.
func (r *BatchReport) Record(outcome ItemOutcome) {
	r.Items = append(r.Items, outcome)

	switch outcome.Status {
	case OutcomeSuccess:
		r.Succeeded++
		r.AddedToBasket++
	case OutcomePartial:
		r.Succeeded++
	case OutcomeFailure:
		r.Failed++
	}
}

// StatusMessage renders the end-of-batch summary shown to the user: a header
// with aggregate counts followed by one line per item.
func (r *BatchReport) StatusMessage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Søgning færdig! %d varer analyseret, %d tilføjet til kurv\n\nResultater:\n",
		r.Succeeded, r.AddedToBasket)

	for _, item := range r.Items {
		fmt.Fprintf(&b, "• %s\n", item.Description)
	}

	return b.String()
}

// MinimalOutcome is the reduced projection persisted by the report store.
// The full catalog payloads are dropped to keep stored reports small.
type MinimalOutcome struct {
	Item         string        `json:"item"`
	Status       OutcomeStatus `json:"status"`
	Description  string        `json:"description"`
	ProductCount int           `json:"productCount"`
}

// Minimize projects the report down to what the store keeps per item.
func (r *BatchReport) Minimize() []MinimalOutcome {
	minimal := make([]MinimalOutcome, 0, len(r.Items))
	for _, item := range r.Items {
		minimal = append(minimal, MinimalOutcome{
			Item:         item.Item,
			Status:       item.Status,
			Description:  item.Description,
			ProductCount: item.ProductCount,
		})
	}
	return minimal
}

// StoredReport is what the persistence collaborator receives: the minimized
// projection plus the aggregates and the rendered status message.
type StoredReport struct {
	ID            string           `json:"id"`
	Items         []MinimalOutcome `json:"items"`
	Succeeded     int              `json:"succeeded"`
	Failed        int              `json:"failed"`
	AddedToBasket int              `json:"addedToBasket"`
	StatusMessage string           `json:"statusMessage"`
	CompletedAt   time.Time        `json:"completedAt"`
}

// Stored builds the persistence projection of the report.
func (r *BatchReport) Stored() *StoredReport {
	return &StoredReport{
		ID:            r.ID,
		Items:         r.Minimize(),
		Succeeded:     r.Succeeded,
		Failed:        r.Failed,
		AddedToBasket: r.AddedToBasket,
		StatusMessage: r.StatusMessage(),
		CompletedAt:   r.CompletedAt,
	}
}
