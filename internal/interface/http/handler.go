package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
)

const serviceName = "weather-assistant"

// Handler wires the HTTP transport to the assistant service.
type Handler struct {
	assistantSvc assistant.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(assistantSvc assistant.Service, logger *slog.Logger) *Handler {
	return &Handler{
		assistantSvc: assistantSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

// Welcome lists the available endpoints.
func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Weather Assistant API",
		"endpoints": gin.H{
			"chat":     "POST /chat",
			"health":   "GET /health",
			"trending": "GET /cities/trending",
		},
	})
}

// Health always answers 200 while the process is up; assistant_ready tells
// clients whether a chat request can succeed.
func (h *Handler) Health(c *gin.Context) {
	readiness := h.assistantSvc.Ready(c.Request.Context())
	c.JSON(http.StatusOK, assistant.NewHealthResponse(serviceName, readiness))
}

// Chat routes one utterance through the assistant. Application failures are
// reported in-band with status 200.
func (h *Handler) Chat(c *gin.Context) {
	var req assistant.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", `request body must be JSON like {"message": "London"}`, err))
		return
	}

	utterance := strings.TrimSpace(req.Message)
	resp := h.assistantSvc.Handle(c.Request.Context(), utterance)
	c.JSON(http.StatusOK, assistant.NewChatResponse(utterance, resp))
}

// TrendingCities returns the most looked-up cities.
func (h *Handler) TrendingCities(c *gin.Context) {
	items, err := h.assistantSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, serviceError("stats_failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": items})
}
