package processing

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docuhub-backend/internal/shared/server/respond"
)

// Handler exposes passthrough routes to the processing service.
type Handler struct {
	client Client
}

func NewHandler(client Client) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes mounts the processor passthrough endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	fa := rg.Group("/fastapi")
	fa.POST("/process/:docId", h.process)
	fa.GET("/status/:docId", h.status)
	fa.POST("/extract-text", h.extractText)
	fa.POST("/summarize", h.summarize)
	fa.GET("/health", h.health)
}

type processRequest struct {
	FilePath string         `json:"filePath"`
	Options  map[string]any `json:"options"`
}

func (h *Handler) process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.FilePath) == "" {
		respond.Error(c, http.StatusBadRequest, "filePath is required")
		return
	}

	result, err := h.client.Process(c.Request.Context(), c.Param("docId"), req.FilePath, req.Options)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) status(c *gin.Context) {
	result, err := h.client.Status(c.Request.Context(), c.Param("docId"))
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, result)
}

type extractTextRequest struct {
	FilePath     string `json:"filePath"`
	DocumentType string `json:"documentType"`
}

func (h *Handler) extractText(c *gin.Context) {
	var req extractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.FilePath) == "" {
		respond.Error(c, http.StatusBadRequest, "filePath is required")
		return
	}

	result, err := h.client.ExtractText(c.Request.Context(), req.FilePath, req.DocumentType)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, result)
}

type summarizeRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"maxLength"`
}

func (h *Handler) summarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.client.Summarize(c.Request.Context(), req.Text, req.MaxLength)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) health(c *gin.Context) {
	result, err := h.client.Health(c.Request.Context())
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, result)
}
