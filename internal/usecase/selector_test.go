package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kurvpilot/backend/internal/domain"
)

// fakeEngine is a scripted inference engine for selector and pipeline tests.
type fakeEngine struct {
	ready    bool
	reply    string
	err      error
	messages []domain.ChatMessage
	calls    int
}

func (f *fakeEngine) Initialize(ctx context.Context, model string) error { return nil }

func (f *fakeEngine) Ready() bool { return f.ready }

func (f *fakeEngine) Status() domain.EngineStatus {
	state := domain.EngineIdle
	if f.ready {
		state = domain.EngineReady
	}
	return domain.EngineStatus{State: state}
}

func (f *fakeEngine) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	f.calls++
	f.messages = messages
	return f.reply, f.err
}

func (f *fakeEngine) Models(ctx context.Context) ([]string, error) { return nil, nil }

func testCatalog() domain.Catalog {
	return domain.Catalog{
		Products: []domain.FilteredProduct{
			{ID: "5045", Name: "Letmælk", Price: 12.95, Labels: []string{}},
			{ID: "7001", Name: "Økologisk Letmælk", Price: 15.5, Labels: []string{"Øko"}},
		},
		Count: 2,
	}
}

func TestSelector_Select(t *testing.T) {
	ctx := context.Background()

	t.Run("fails when engine not ready", func(t *testing.T) {
		selector := NewSelector(&fakeEngine{ready: false})

		_, err := selector.Select(ctx, "mælk", testCatalog())
		if !errors.Is(err, domain.ErrEngineNotReady) {
			t.Errorf("error = %v, want ErrEngineNotReady", err)
		}
	})

	t.Run("fails when engine is nil", func(t *testing.T) {
		selector := NewSelector(nil)

		_, err := selector.Select(ctx, "mælk", testCatalog())
		if !errors.Is(err, domain.ErrEngineNotReady) {
			t.Errorf("error = %v, want ErrEngineNotReady", err)
		}
	})

	t.Run("resolves a bare ID reply", func(t *testing.T) {
		selector := NewSelector(&fakeEngine{ready: true, reply: "5045"})

		result, err := selector.Select(ctx, "mælk", testCatalog())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ProductID != "5045" {
			t.Errorf("ProductID = %s, want 5045", result.ProductID)
		}
		if result.Product == nil || result.Product.Name != "Letmælk" {
			t.Errorf("Product = %+v, want Letmælk", result.Product)
		}
	})

	t.Run("extracts first digit run from a chatty reply", func(t *testing.T) {
		selector := NewSelector(&fakeEngine{ready: true, reply: "The best product is 7001, a fine choice."})

		result, err := selector.Select(ctx, "øko mælk", testCatalog())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ProductID != "7001" {
			t.Errorf("ProductID = %s, want 7001", result.ProductID)
		}
		if result.Product == nil || result.Product.Name != "Økologisk Letmælk" {
			t.Errorf("Product = %+v, want Økologisk Letmælk", result.Product)
		}
	})

	t.Run("uses raw trimmed reply when no digits present", func(t *testing.T) {
		selector := NewSelector(&fakeEngine{ready: true, reply: "  unknown  "})

		result, err := selector.Select(ctx, "mælk", testCatalog())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ProductID != "unknown" {
			t.Errorf("ProductID = %q, want %q", result.ProductID, "unknown")
		}
		if result.Product != nil {
			t.Errorf("Product = %+v, want nil for unmatched identifier", result.Product)
		}
	})

	t.Run("unmatched ID is a normal result not an error", func(t *testing.T) {
		selector := NewSelector(&fakeEngine{ready: true, reply: "99999"})

		result, err := selector.Select(ctx, "mælk", testCatalog())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ProductID != "99999" {
			t.Errorf("ProductID = %s, want 99999", result.ProductID)
		}
		if result.Product != nil {
			t.Errorf("Product = %+v, want nil", result.Product)
		}
	})

	t.Run("propagates chat errors", func(t *testing.T) {
		engineErr := errors.New("connection refused")
		selector := NewSelector(&fakeEngine{ready: true, err: engineErr})

		_, err := selector.Select(ctx, "mælk", testCatalog())
		if !errors.Is(err, engineErr) {
			t.Errorf("error = %v, want wrapped engine error", err)
		}
	})

	t.Run("builds the two-message prompt", func(t *testing.T) {
		engine := &fakeEngine{ready: true, reply: "5045"}
		selector := NewSelector(engine)

		_, err := selector.Select(ctx, "mælk", testCatalog())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(engine.messages) != 2 {
			t.Fatalf("got %d messages, want 2", len(engine.messages))
		}
		if engine.messages[0].Role != "system" {
			t.Errorf("first role = %s, want system", engine.messages[0].Role)
		}
		if !strings.Contains(engine.messages[0].Content, "Danish market") {
			t.Error("system prompt missing market instruction")
		}
		if engine.messages[1].Role != "user" {
			t.Errorf("second role = %s, want user", engine.messages[1].Role)
		}
		user := engine.messages[1].Content
		if !strings.Contains(user, `"mælk"`) {
			t.Error("user prompt missing raw item text")
		}
		if !strings.Contains(user, `"Id": "5045"`) || !strings.Contains(user, `"NumFound": 2`) {
			t.Error("user prompt missing serialized catalog")
		}
	})
}

func TestParseProductID(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"bare id", "5045", "5045"},
		{"surrounding whitespace", " 5045\n", "5045"},
		{"prose around id", "Product ID: 5045.", "5045"},
		{"first of several runs", "5045 or maybe 7001", "5045"},
		{"no digits", "none of these", "none of these"},
		{"empty reply", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseProductID(tt.reply); got != tt.want {
				t.Errorf("parseProductID(%q) = %q, want %q", tt.reply, got, tt.want)
			}
		})
	}
}
