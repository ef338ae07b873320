package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skiconcierge/backend/internal/domain"
	"github.com/skiconcierge/backend/internal/usecase"
	"go.uber.org/zap"
)

// ConciergeService is what the handlers need from the concierge use case
type ConciergeService interface {
	CreateSession(ctx context.Context) (*domain.Session, error)
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	UpdateProfile(ctx context.Context, id string, fields map[string]string) (*domain.Session, error)
	ResetSession(ctx context.Context, id string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	ProcessTurn(ctx context.Context, id string, req usecase.TurnRequest) (*usecase.TurnResult, error)
	ExtractWithLinks(text string) []domain.Recommendation
	RecommendFromCatalog(skillLevel, terrainPreference string) []domain.Recommendation
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	concierge ConciergeService
}

// NewHandler creates a new HTTP handler
func NewHandler(concierge ConciergeService) *Handler {
	return &Handler{concierge: concierge}
}

// MessageRequest is the body of POST /sessions/:id/messages
type MessageRequest struct {
	Message string            `json:"message" binding:"required,max=4000"`
	Profile map[string]string `json:"profile" binding:"omitempty,dive,keys,profilekey,endkeys,max=200"`
	Speak   bool              `json:"speak"`
}

// ProfileRequest is the body of PATCH /sessions/:id/profile
type ProfileRequest struct {
	Profile map[string]string `json:"profile" binding:"required,dive,keys,profilekey,endkeys,max=200"`
}

// ExtractRequest is the body of POST /recommendations/extract.
// Text must be present but may be empty.
type ExtractRequest struct {
	Text *string `json:"text" binding:"required"`
}

// CatalogQuery holds GET /recommendations query parameters.
// An unrecognised skill level is not an error; it matches nothing.
type CatalogQuery struct {
	SkillLevel        string `form:"skill_level"`
	TerrainPreference string `form:"terrain_preference"`
}

// TurnResponse is the body returned for a processed turn
type TurnResponse struct {
	SessionID       string                  `json:"sessionId"`
	Reply           string                  `json:"reply"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	Profile         domain.UserProfile      `json:"profile"`
	Fallback        bool                    `json:"fallback"`
	// Audio is base64-encoded by encoding/json
	Audio         []byte `json:"audio,omitempty"`
	AudioMimeType string `json:"audioMimeType,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "skiconcierge-backend",
		"version": "1.0.0",
	})
}

// ListStarters returns example opening messages
func (h *Handler) ListStarters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"starters": usecase.ConversationStarters()})
}

// CreateSession starts a conversation
func (h *Handler) CreateSession(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	session, err := h.concierge.CreateSession(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession returns profile and history
func (h *Handler) GetSession(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	session, err := h.concierge.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpdateProfile merges explicitly selected profile fields
func (h *Handler) UpdateProfile(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	session, err := h.concierge.UpdateProfile(c.Request.Context(), c.Param("id"), req.Profile)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SendMessage runs one conversation turn
func (h *Handler) SendMessage(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	result, err := h.concierge.ProcessTurn(c.Request.Context(), c.Param("id"), usecase.TurnRequest{
		Message: req.Message,
		Profile: req.Profile,
		Speak:   req.Speak,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TurnResponse{
		SessionID:       result.SessionID,
		Reply:           result.Reply,
		Recommendations: result.Recommendations,
		Profile:         result.Profile,
		Fallback:        result.Fallback,
		Audio:           result.Audio,
		AudioMimeType:   result.AudioMimeType,
	})
}

// ResetSession clears profile and history
func (h *Handler) ResetSession(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	session, err := h.concierge.ResetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// DeleteSession ends a conversation
func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	if err := h.concierge.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExtractRecommendations parses SKI: lines out of advisor text
func (h *Handler) ExtractRecommendations(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": h.concierge.ExtractWithLinks(*req.Text)})
}

// RecommendFromCatalog looks skis up by skill level and terrain preference
func (h *Handler) RecommendFromCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var query CatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	recommendations := h.concierge.RecommendFromCatalog(
		domain.NormalizeSkillLevel(query.SkillLevel),
		query.TerrainPreference,
	)
	c.JSON(http.StatusOK, gin.H{
		"category":        usecase.TerrainCategory(query.TerrainPreference),
		"recommendations": recommendations,
	})
}

// RetailerLinks builds shopping links for a ski name
func (h *Handler) RetailerLinks(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":      name,
		"retailers": usecase.BuildRetailerLinks(name),
	})
}

// ready writes 501 when no concierge service is wired
func (h *Handler) ready(c *gin.Context) bool {
	if h.concierge == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "concierge service not configured"})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP responses.
// Engine and speech failures never get here: a turn degrades to the fallback reply or to no audio.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request parameters"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
	default:
		zap.L().Error("unhandled request error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
