package documents

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docuhub-backend/internal/shared/apperr"
	"docuhub-backend/internal/shared/server/middleware"
	"docuhub-backend/internal/shared/server/respond"
)

// multipart boundaries and form fields ride along with the file itself.
const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.list)
	rg.POST("/documents", h.create)
	rg.GET("/documents/search/:query", h.search)
	rg.GET("/documents/status/:status", h.byStatus)
	rg.GET("/documents/:id", h.get)
	rg.PUT("/documents/:id", h.update)
	rg.DELETE("/documents/:id", h.remove)
	rg.GET("/documents/:id/download", h.download)
}

func (h *Handler) create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.Policy.MaxFileSize+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.DomainError(c, fmt.Errorf("%w: file exceeds the %d byte limit", apperr.ErrPayloadTooLarge, h.Svc.Policy.MaxFileSize))
			return
		}
		respond.DomainError(c, fmt.Errorf("%w: file is required", apperr.ErrValidation))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.DomainError(c, fmt.Errorf("%w: unable to read file", apperr.ErrValidation))
		return
	}
	defer file.Close()

	doc, err := h.Svc.Ingest(c.Request.Context(), IngestInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Tags:        c.PostForm("tags"),
		UploadedBy:  middleware.UserIDFromContext(c),
		FileName:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		File:        file,
	})
	if err != nil {
		respond.DomainError(c, err)
		return
	}

	c.Set("documentId", doc.ID)
	respond.Created(c, "document uploaded successfully", gin.H{
		"id":     doc.ID,
		"title":  doc.Title,
		"status": doc.Status,
	})
}

func (h *Handler) list(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	docs, total, err := h.Svc.List(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		respond.DomainError(c, err)
		return
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"data": toResponseList(docs),
		"pagination": respond.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) update(c *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Tags        string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.DomainError(c, fmt.Errorf("%w: invalid request body", apperr.ErrValidation))
		return
	}

	err := h.Svc.Update(c.Request.Context(), c.Param("id"), UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
	})
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OKMessage(c, "document updated successfully")
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OKMessage(c, "document deleted successfully")
}

func (h *Handler) download(c *gin.Context) {
	doc, rc, err := h.Svc.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	c.Header("Content-Length", strconv.FormatInt(doc.FileSize, 10))
	c.DataFromReader(http.StatusOK, doc.FileSize, doc.MimeType, rc, nil)
}

func (h *Handler) search(c *gin.Context) {
	query := c.Param("query")
	docs, err := h.Svc.Search(c.Request.Context(), query)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"data":  toResponseList(docs),
		"query": query,
	})
}

func (h *Handler) byStatus(c *gin.Context) {
	status := c.Param("status")
	docs, err := h.Svc.ListByStatus(c.Request.Context(), status)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"data":   toResponseList(docs),
		"status": status,
	})
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
