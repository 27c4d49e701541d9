package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	portssvc "github.com/medrar/medrar_books_app/internal/core/ports/services"
	"github.com/medrar/medrar_books_app/internal/core/services"
	"github.com/medrar/medrar_books_app/internal/dto"
	"github.com/medrar/medrar_books_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler serves committed-invoice reads and the draft composer.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

// newInvoiceHandler creates a new invoiceHandler.
func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

// registerInvoiceRoutes registers invoice and draft routes. commitLimiter is
// applied only to the commit route, the one endpoint that moves money.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, commitLimiter gin.HandlerFunc) {
	h := newInvoiceHandler(invoiceService)

	rg.GET("/sales-invoices", h.listInvoices(domain.SalesInvoice))
	rg.GET("/sales-invoices/:id", h.getInvoiceByID(domain.SalesInvoice))
	rg.GET("/purchase-invoices", h.listInvoices(domain.PurchaseInvoice))
	rg.GET("/purchase-invoices/:id", h.getInvoiceByID(domain.PurchaseInvoice))

	rg.POST("/sales-drafts", h.startDraft(domain.SalesInvoice))
	rg.POST("/purchase-drafts", h.startDraft(domain.PurchaseInvoice))

	drafts := rg.Group("/drafts")
	{
		drafts.GET("/:id", h.getDraft)
		drafts.PUT("/:id/counterparty", h.selectCounterparty)
		drafts.POST("/:id/lines", h.addLine)
		drafts.PATCH("/:id/lines/:index", h.updateLine)
		drafts.DELETE("/:id/lines/:index", h.removeLine)
		drafts.DELETE("/:id", h.discardDraft)
		if commitLimiter != nil {
			drafts.POST("/:id/commit", commitLimiter, h.commitDraft)
		} else {
			drafts.POST("/:id/commit", h.commitDraft)
		}
	}
}

func (h *invoiceHandler) listInvoices(kind domain.InvoiceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), kind)
		if err != nil {
			handleServiceError(c, err, "Failed to list invoices")
			return
		}
		c.JSON(http.StatusOK, dto.ToInvoiceResponses(invoices))
	}
}

func (h *invoiceHandler) getInvoiceByID(kind domain.InvoiceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoiceID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), kind, invoiceID)
		if err != nil {
			handleServiceError(c, err, "Failed to retrieve invoice")
			return
		}
		c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
	}
}

func (h *invoiceHandler) startDraft(kind domain.InvoiceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, err := h.invoiceService.StartDraft(c.Request.Context(), kind)
		if err != nil {
			handleServiceError(c, err, "Failed to start draft")
			return
		}
		c.JSON(http.StatusCreated, dto.ToDraftResponse(draft))
	}
}

func (h *invoiceHandler) getDraft(c *gin.Context) {
	draft, err := h.invoiceService.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleDraftError(c, err, "Failed to retrieve draft")
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(draft))
}

// selectCounterparty binds an existing contact by id, or creates a new one
// when only a name is given.
func (h *invoiceHandler) selectCounterparty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	draftID := c.Param("id")

	var req dto.SelectCounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SelectCounterparty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	var draft *domain.InvoiceDraft
	var err error
	switch {
	case req.ContactID != nil:
		draft, err = h.invoiceService.SelectCounterparty(c.Request.Context(), draftID, *req.ContactID)
	case req.Name != nil:
		draft, err = h.invoiceService.SelectNewCounterparty(c.Request.Context(), draftID, *req.Name, req.Phone)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either contactID or name must be provided"})
		return
	}
	if err != nil {
		handleDraftError(c, err, "Failed to select counterparty")
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(draft))
}

// addLine adds a line for an existing product by id, or creates a new product
// (no reference price) when only a name is given.
func (h *invoiceHandler) addLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	draftID := c.Param("id")

	var req dto.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddLine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	var draft *domain.InvoiceDraft
	var err error
	switch {
	case req.ProductID != nil:
		draft, err = h.invoiceService.AddLine(c.Request.Context(), draftID, *req.ProductID)
	case req.Name != nil:
		draft, err = h.invoiceService.AddLineNewProduct(c.Request.Context(), draftID, *req.Name)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either productID or name must be provided"})
		return
	}
	if err != nil {
		handleDraftError(c, err, "Failed to add line")
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(draft))
}

func (h *invoiceHandler) updateLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	draftID := c.Param("id")
	index, ok := parseIndexParam(c)
	if !ok {
		return
	}

	var req dto.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateLine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if req.Quantity == nil && req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either quantity or price must be provided"})
		return
	}

	// One guarded mutation: an invalid quantity or price rejects the whole
	// edit, so a 4xx response never leaves a half-applied line.
	draft, err := h.invoiceService.UpdateLine(c.Request.Context(), draftID, index, req.Quantity, req.Price)
	if err != nil {
		handleDraftError(c, err, "Failed to update line")
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(draft))
}

func (h *invoiceHandler) removeLine(c *gin.Context) {
	draftID := c.Param("id")
	index, ok := parseIndexParam(c)
	if !ok {
		return
	}

	draft, err := h.invoiceService.RemoveLine(c.Request.Context(), draftID, index)
	if err != nil {
		handleDraftError(c, err, "Failed to remove line")
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(draft))
}

func (h *invoiceHandler) commitDraft(c *gin.Context) {
	invoice, err := h.invoiceService.CommitDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleDraftError(c, err, "Failed to commit draft")
		return
	}
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

func (h *invoiceHandler) discardDraft(c *gin.Context) {
	if err := h.invoiceService.DiscardDraft(c.Request.Context(), c.Param("id")); err != nil {
		handleDraftError(c, err, "Failed to discard draft")
		return
	}
	c.Status(http.StatusNoContent)
}

// parseIndexParam reads the zero-based line index path parameter.
func parseIndexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index parameter"})
		return 0, false
	}
	return index, true
}

// handleDraftError extends the shared mapping with the composer's sentinels.
func handleDraftError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrDraftCommitted), errors.Is(err, services.ErrStaleReference):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrCounterpartyRequired),
		errors.Is(err, domain.ErrEmptyInvoice):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		handleServiceError(c, err, fallback)
	}
}
