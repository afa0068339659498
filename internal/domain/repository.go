package domain

import "context"

// Credential is the opaque bearer token used for all retailer calls within
// one batch. It is acquired once per run and never persisted.
type Credential string

// TokenProvider obtains a short-lived bearer credential from the retailer.
type TokenProvider interface {
	AcquireToken(ctx context.Context) (Credential, error)
}

// SearchClient retrieves raw product search results from the retailer
// catalog endpoint.
type SearchClient interface {
	Search(ctx context.Context, cred Credential, query SearchQuery) (*RawSearchResponse, error)
}

// BasketClient adds a single unit of a product to the user's basket. A
// rejected request comes back as a *BasketError value so the caller can
// report "chosen but not added" instead of failing the item.
type BasketClient interface {
	AddToBasket(ctx context.Context, cred Credential, productID string) error
}

// ChatMessage is one role-tagged message in a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// EngineState describes where the inference engine is in its lifecycle.
type EngineState string

const (
	EngineIdle        EngineState = "idle"
	EngineDownloading EngineState = "downloading"
	EngineReady       EngineState = "ready"
	EngineError       EngineState = "error"
)

// EngineStatus is a polled snapshot of engine initialization progress.
type EngineStatus struct {
	State    EngineState `json:"state"`
	Model    string      `json:"model,omitempty"`
	Progress float64     `json:"progress"` // 0..1 during download
	Message  string      `json:"message,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// InferenceEngine is the local language-model collaborator. It is a
// long-lived shared resource: the pipeline never tears it down and assumes
// at most one chat request in flight at a time.
type InferenceEngine interface {
	// Initialize downloads the model if needed and marks the engine ready.
	Initialize(ctx context.Context, model string) error

	// Ready reports whether a model is loaded and chat calls may be made.
	Ready() bool

	// Status returns a snapshot of initialization progress for polling.
	Status() EngineStatus

	// Chat sends the ordered messages and returns the single textual reply.
	Chat(ctx context.Context, messages []ChatMessage) (string, error)

	// Models lists the locally available model identifiers.
	Models(ctx context.Context) ([]string, error)
}

// ReportStore is the persistence collaborator for finished batch reports.
type ReportStore interface {
	Save(ctx context.Context, report *StoredReport) error
	Get(ctx context.Context, id string) (*StoredReport, error)
	Latest(ctx context.Context) (*StoredReport, error)
}
