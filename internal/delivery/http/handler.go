package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/colormatch/backend/internal/domain"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// ColorMatcher is the stateless matching API the handler needs
type ColorMatcher interface {
	FindSimilarColors(ctx context.Context, request *domain.MatchRequest) (*domain.MatchResponse, error)
	Categories() []string
}

// SessionManager is the session API the handler needs
type SessionManager interface {
	Create() domain.Session
	Get(id string) (domain.Session, error)
	SetColor(id, hex string) (domain.Session, error)
	ToggleProduct(id, product string) (domain.Session, error)
	Run(ctx context.Context, id string) (domain.Session, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	colors   ColorMatcher
	sessions SessionManager
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. Either service may be nil, in which
// case its endpoints answer 501.
func NewHandler(colors ColorMatcher, sessions SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		colors:   colors,
		sessions: sessions,
		logger:   logger,
	}
}

type setColorRequest struct {
	Color string `json:"color" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "colormatch-backend",
		"version": Version,
	})
}

// ListCategories returns the selectable product categories
func (h *Handler) ListCategories(c *gin.Context) {
	if h.colors == nil {
		h.notConfigured(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": h.colors.Categories()})
}

// MatchColors handles stateless match requests
func (h *Handler) MatchColors(c *gin.Context) {
	if h.colors == nil {
		h.notConfigured(c)
		return
	}

	var request domain.MatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	response, err := h.colors.FindSimilarColors(c.Request.Context(), &request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CreateSession starts a new match session
func (h *Handler) CreateSession(c *gin.Context) {
	if h.sessions == nil {
		h.notConfigured(c)
		return
	}
	c.JSON(http.StatusCreated, h.sessions.Create())
}

// GetSession returns a session's state
func (h *Handler) GetSession(c *gin.Context) {
	if h.sessions == nil {
		h.notConfigured(c)
		return
	}

	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SetSessionColor updates the session's target color
func (h *Handler) SetSessionColor(c *gin.Context) {
	if h.sessions == nil {
		h.notConfigured(c)
		return
	}

	var request setColorRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	session, err := h.sessions.SetColor(c.Param("id"), request.Color)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ToggleSessionProduct selects or deselects a product category
func (h *Handler) ToggleSessionProduct(c *gin.Context) {
	if h.sessions == nil {
		h.notConfigured(c)
		return
	}

	session, err := h.sessions.ToggleProduct(c.Param("id"), c.Param("product"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// RunSessionMatch matches the session's current selection
func (h *Handler) RunSessionMatch(c *gin.Context) {
	if h.sessions == nil {
		h.notConfigured(c)
		return
	}

	session, err := h.sessions.Run(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) notConfigured(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": "color matching not configured",
	})
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}

	message := err.Error()
	if status == http.StatusServiceUnavailable {
		message = "the color catalog is currently unavailable, please try again"
	}
	c.JSON(status, gin.H{"error": message})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidHexColor),
		errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrNoCategories):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMatchInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrResourceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
