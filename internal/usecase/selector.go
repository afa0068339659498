package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kurvpilot/backend/internal/domain"
)

// digitRunRegex extracts the first contiguous run of digits from a model
// reply. Replies are expected to be a bare product ID but small models
// occasionally wrap it in prose.
var digitRunRegex = regexp.MustCompile(`\d+`)

// selectorSystemPrompt is the fixed instruction for the grocery-matching
// model. The field names it references (Name, Labels, Description,
// UnitPriceCalc, Price) match the catalog's JSON serialization.
const selectorSystemPrompt = `You are a precise AI grocery shopping assistant for the Danish market. Your task is to analyze a user's request and select the single best product from a provided JSON list of available products.

**Rules for Selection:**
1. Prioritize an exact or close match in the ` + "`Name`" + ` field.
2. Use ` + "`Labels`" + ` and ` + "`Description`" + ` for specifics. For "organic", match "Øko". For "small", match "små". For quantity, check the ` + "`Description`" + ` (e.g., "1 stk.", "550 g.").
3. **Default Choice:** If the user's request is generic (e.g., "banan"), choose the most standard, non-organic option, which is usually the cheapest per unit (` + "`UnitPriceCalc`" + `).
4. **Ties:** If multiple products are an equally good match, select the one with the lower ` + "`Price`" + `.

**CRITICAL OUTPUT REQUIREMENT:**
You MUST respond with ONLY the product ID as a plain string. Do NOT include any explanations, formatting, or additional text. Just the ID number.`

// Selector asks the inference engine to pick one product from a filtered
// catalog. The engine is injected and externally managed; readiness is an
// explicit pre-condition checked on every call.
type Selector struct {
	engine domain.InferenceEngine
}

// NewSelector creates a selector backed by the given inference engine
func NewSelector(engine domain.InferenceEngine) *Selector {
	return &Selector{engine: engine}
}

// Select sends the item and catalog to the model with deterministic
// decoding and resolves the reply to a catalog product. A reply that
// matches no product is a normal result with a nil Product; only transport
// or readiness problems are errors.
func (s *Selector) Select(ctx context.Context, item string, catalog domain.Catalog) (*domain.SelectionResult, error) {
	if s.engine == nil || !s.engine.Ready() {
		return nil, domain.ErrEngineNotReady
	}

	userPrompt, err := formatUserPrompt(item, catalog)
	if err != nil {
		return nil, err
	}

	reply, err := s.engine.Chat(ctx, []domain.ChatMessage{
		{Role: "system", Content: selectorSystemPrompt},
		{Role: "user", Content: userPrompt},
	})
	if err != nil {
		return nil, fmt.Errorf("selection failed for %q: %w", item, err)
	}

	productID := parseProductID(reply)

	return &domain.SelectionResult{
		ProductID: productID,
		Product:   catalog.FindByID(productID),
	}, nil
}

// formatUserPrompt renders the user message: the raw item text plus the
// full filtered catalog as indented JSON.
func formatUserPrompt(item string, catalog domain.Catalog) (string, error) {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize catalog: %w", err)
	}

	return fmt.Sprintf("Please select the best product ID for: %q\n\nAvailable Products:\n%s", item, data), nil
}

// parseProductID extracts the candidate identifier from a model reply:
// the first digit run wins, otherwise the raw trimmed reply is used
// verbatim.
func parseProductID(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if match := digitRunRegex.FindString(trimmed); match != "" {
		return match
	}
	return trimmed
}
