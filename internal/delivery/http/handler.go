package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kurvpilot/backend/internal/domain"
	"github.com/kurvpilot/backend/internal/usecase"
)

// BasketFiller runs one batch of the resolution pipeline.
type BasketFiller interface {
	Run(ctx context.Context, items []string) (*domain.BatchReport, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	pipeline     BasketFiller
	engine       domain.InferenceEngine
	store        domain.ReportStore
	defaultModel string
}

// NewHandler creates a new HTTP handler
func NewHandler(pipeline BasketFiller, engine domain.InferenceEngine, store domain.ReportStore, defaultModel string) *Handler {
	return &Handler{
		pipeline:     pipeline,
		engine:       engine,
		store:        store,
		defaultModel: defaultModel,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "kurvpilot-backend",
		"version": "1.0.0",
	})
}

// fillRequest is the basket-fill input: either a raw multi-line list or an
// already-split item slice.
type fillRequest struct {
	List  string   `json:"list"`
	Items []string `json:"items"`
}

// FillBasket runs the whole pipeline for the submitted grocery list and
// returns the batch report plus the user-facing status message.
func (h *Handler) FillBasket(c *gin.Context) {
	if h.pipeline == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "pipeline not configured"})
		return
	}

	var req fillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	items := req.Items
	if len(items) == 0 {
		items = usecase.ParseItems(req.List)
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "grocery list is empty"})
		return
	}

	report, err := h.pipeline.Run(c.Request.Context(), items)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":      "retailer authentication failed",
				"detail":     authErr.Error(),
				"statusCode": authErr.StatusCode,
			})
			return
		}
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "grocery list is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report":        report,
		"statusMessage": report.StatusMessage(),
	})
}

// LatestReport returns the most recently stored batch report
func (h *Handler) LatestReport(c *gin.Context) {
	report, err := h.store.Latest(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no batch report stored yet"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ReportByID returns one stored batch report by its identifier
func (h *Handler) ReportByID(c *gin.Context) {
	report, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "batch report not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// initializeRequest selects the model to pull; empty means the configured
// default.
type initializeRequest struct {
	Model string `json:"model"`
}

// InitializeEngine kicks off a model pull in the background. Progress is
// polled through EngineStatus rather than pushed.
func (h *Handler) InitializeEngine(c *gin.Context) {
	var req initializeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	model := req.Model
	if model == "" {
		model = h.defaultModel
	}

	if h.engine.Status().State == domain.EngineDownloading {
		c.JSON(http.StatusConflict, gin.H{"error": "engine initialization already in progress"})
		return
	}

	// The pull outlives the request; it is detached from the request
	// context on purpose.
	go h.engine.Initialize(context.Background(), model)

	c.JSON(http.StatusAccepted, gin.H{"model": model, "status": "initializing"})
}

// EngineStatus returns a snapshot of engine initialization progress
func (h *Handler) EngineStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Status())
}

// EngineModels lists the locally available models
func (h *Handler) EngineModels(c *gin.Context) {
	models, err := h.engine.Models(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"models": models})
}
