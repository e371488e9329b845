package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"buyer_leads_backend/internal/buyers/service"
	"buyer_leads_backend/internal/buyers/transport"
	"buyer_leads_backend/platform/apperr"
	"buyer_leads_backend/platform/httpkit"
	"buyer_leads_backend/platform/ratelimit"
)

// Handler exposes buyer lead endpoints.
type Handler struct {
	svc           *service.Service
	importer      *service.Importer
	createLimiter ratelimit.Limiter
}

func New(svc *service.Service, importer *service.Importer, createLimiter ratelimit.Limiter) *Handler {
	return &Handler{svc: svc, importer: importer, createLimiter: createLimiter}
}

// RegisterRoutes mounts all buyer routes. Every route requires an
// authenticated actor.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/export", h.Export)
	rg.POST("/import", h.Import)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /buyers. Creation is throttled per client IP.
func (h *Handler) Create(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	allowed, err := h.createLimiter.Allow(c.Request.Context(), c.ClientIP())
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "check rate limit", err))
		return
	}
	if !allowed {
		httpkit.HandleError(c, apperr.RateLimited("Too many requests, please try again later"))
		return
	}

	var row transport.ImportRow
	if err := c.ShouldBindJSON(&row); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	buyer, err := h.svc.Create(c.Request.Context(), id.UserID(), row)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, buyer)
}

// List handles GET /buyers with filters and fixed-size pagination.
func (h *Handler) List(c *gin.Context) {
	var req transport.ListBuyersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", nil)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

// Get handles GET /buyers/:id, returning the lead with owner and history.
func (h *Handler) Get(c *gin.Context) {
	buyerID, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), buyerID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, detail)
}

// Update handles PUT /buyers/:id with a full field set.
func (h *Handler) Update(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	buyerID, ok := parseID(c)
	if !ok {
		return
	}

	var row transport.ImportRow
	if err := c.ShouldBindJSON(&row); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	buyer, err := h.svc.Update(c.Request.Context(), buyerID, id.UserID(), row)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, buyer)
}

// Delete handles DELETE /buyers/:id. Only the owner may delete.
func (h *Handler) Delete(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	buyerID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), buyerID, id.UserID()); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"message": "buyer deleted"})
}

// Import handles POST /buyers/import. The body is either JSON with a "data"
// array of rows or a raw CSV document (Content-Type: text/csv).
func (h *Handler) Import(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	rows, ok := h.readImportRows(c)
	if !ok {
		return
	}

	resp, err := h.importer.Import(c.Request.Context(), id.UserID(), rows)
	if err != nil {
		h.writeImportError(c, err)
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) readImportRows(c *gin.Context) ([]transport.ImportRow, bool) {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "text/csv") {
		rows, err := transport.ParseCSVRows(c.Request.Body)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid CSV document", nil)
			return nil, false
		}
		return rows, true
	}

	var req transport.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return nil, false
	}
	return req.Data, true
}

// writeImportError keeps row-level validation failures in the import error
// shape while every other failure follows the standard error mapping.
func (h *Handler) writeImportError(c *gin.Context, err error) {
	if domainErr, ok := err.(*apperr.Error); ok && domainErr.Kind == apperr.KindValidation {
		if rowErrors, ok := domainErr.Details.([]transport.RowErrors); ok {
			httpkit.JSON(c, http.StatusBadRequest, transport.ImportErrorResponse{
				Message:   domainErr.Message,
				RowErrors: rowErrors,
			})
			return
		}
	}
	httpkit.HandleError(c, err)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	buyerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid buyer id", nil)
		return uuid.Nil, false
	}
	return buyerID, true
}
