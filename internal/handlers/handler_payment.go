package handlers

import (
	"log/slog"
	"net/http"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	portssvc "github.com/medrar/medrar_books_app/internal/core/ports/services"
	"github.com/medrar/medrar_books_app/internal/dto"
	"github.com/medrar/medrar_books_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// paymentHandler records and lists payments through the ledger.
type paymentHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newPaymentHandler creates a new paymentHandler.
func newPaymentHandler(ls portssvc.LedgerSvcFacade) *paymentHandler {
	return &paymentHandler{ledgerService: ls}
}

// registerPaymentRoutes registers payment routes for both contact kinds.
func registerPaymentRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newPaymentHandler(ledgerService)

	rg.POST("/customers/:id/payments", h.recordPayment(domain.Customer))
	rg.POST("/suppliers/:id/payments", h.recordPayment(domain.Supplier))
	rg.GET("/customer-payments", h.listPayments(domain.Customer))
	rg.GET("/supplier-payments", h.listPayments(domain.Supplier))
}

func (h *paymentHandler) recordPayment(kind domain.ContactKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		contactID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req dto.RecordPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}

		payment, err := h.ledgerService.RecordPayment(c.Request.Context(), kind, contactID, req)
		if err != nil {
			handleServiceError(c, err, "Failed to record payment")
			return
		}
		c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
	}
}

func (h *paymentHandler) listPayments(kind domain.ContactKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		payments, err := h.ledgerService.ListPayments(c.Request.Context(), kind)
		if err != nil {
			handleServiceError(c, err, "Failed to list payments")
			return
		}
		c.JSON(http.StatusOK, dto.ToPaymentResponses(payments))
	}
}
