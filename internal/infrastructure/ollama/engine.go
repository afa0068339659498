package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kurvpilot/backend/internal/domain"
)

const (
	// Selection must be deterministic: temperature pinned to zero, no other
	// sampling parameters.
	chatTemperature = 0.0

	// Keep the model resident between items so sequential selections in one
	// batch do not reload it.
	keepAliveSeconds = 600
)

type chatRequest struct {
	Model     string               `json:"model"`
	Messages  []domain.ChatMessage `json:"messages"`
	Stream    bool                 `json:"stream"`
	KeepAlive int                  `json:"keep_alive"`
	Options   map[string]any       `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

type pullProgress struct {
	Status    string `json:"status"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
	Error     string `json:"error"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Engine talks to a local Ollama daemon over its JSON API. It is a shared,
// long-lived resource: initialized once (or re-initialized with another
// model) and reused across batches. At most one chat request is expected in
// flight at a time.
type Engine struct {
	baseURL    string
	httpClient *http.Client

	mu       sync.RWMutex
	model    string
	state    domain.EngineState
	progress float64
	message  string
	lastErr  string
}

// NewEngine constructs an engine client for the given Ollama endpoint.
func NewEngine(baseURL string, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Engine{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		state: domain.EngineIdle,
	}
}

// Initialize pulls the model (streaming progress into the polled status) and
// marks the engine ready once the model shows up in the local tag list.
func (e *Engine) Initialize(ctx context.Context, model string) error {
	e.setDownloading(model)

	if err := e.pull(ctx, model); err != nil {
		e.setError(err)
		return err
	}

	available, err := e.Models(ctx)
	if err != nil {
		e.setError(err)
		return err
	}
	if !containsModel(available, model) {
		err := fmt.Errorf("model %q not present after pull", model)
		e.setError(err)
		return err
	}

	e.mu.Lock()
	e.state = domain.EngineReady
	e.progress = 1
	e.message = "model ready"
	e.lastErr = ""
	e.mu.Unlock()

	log.Printf("[OLLAMA] Model %s ready", model)
	return nil
}

// pull streams /api/pull, updating progress line by line.
func (e *Engine) pull(ctx context.Context, model string) error {
	reqBody, err := json.Marshal(map[string]any{"name": model, "stream": true})
	if err != nil {
		return fmt.Errorf("failed to encode pull request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/pull", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create pull request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// The pull can far outlast the chat timeout; rely on ctx instead.
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("pull request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pull failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var progress pullProgress
		if err := json.Unmarshal(line, &progress); err != nil {
			continue
		}
		if progress.Error != "" {
			return fmt.Errorf("pull failed: %s", progress.Error)
		}

		e.mu.Lock()
		e.message = progress.Status
		if progress.Total > 0 {
			e.progress = float64(progress.Completed) / float64(progress.Total)
		}
		e.mu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("pull stream error: %w", err)
	}

	return nil
}

// Ready reports whether a model is loaded and chat calls may be made.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state == domain.EngineReady
}

// Status returns a snapshot of the engine lifecycle for polling.
func (e *Engine) Status() domain.EngineStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return domain.EngineStatus{
		State:    e.state,
		Model:    e.model,
		Progress: e.progress,
		Message:  e.message,
		Error:    e.lastErr,
	}
}

// Chat sends the ordered messages with deterministic decoding and returns
// the single textual reply.
func (e *Engine) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	e.mu.RLock()
	model := e.model
	ready := e.state == domain.EngineReady
	e.mu.RUnlock()

	if !ready {
		return "", domain.ErrEngineNotReady
	}

	reqBody := chatRequest{
		Model:     model,
		Messages:  messages,
		Stream:    false,
		KeepAlive: keepAliveSeconds,
		Options: map[string]any{
			"temperature": chatTemperature,
		},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	return chatResp.Message.Content, nil
}

// Models lists the locally available model names from /api/tags.
func (e *Engine) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tags request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tags request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tags failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags response: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (e *Engine) setDownloading(model string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.model = model
	e.state = domain.EngineDownloading
	e.progress = 0
	e.message = "pulling model"
	e.lastErr = ""
}

func (e *Engine) setError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = domain.EngineError
	e.lastErr = err.Error()
	log.Printf("[OLLAMA] Engine error: %v", err)
}

// containsModel matches a requested model name against the tag list,
// tolerating the implicit ":latest" suffix Ollama appends.
func containsModel(available []string, model string) bool {
	for _, name := range available {
		if name == model || name == model+":latest" {
			return true
		}
	}
	return false
}
