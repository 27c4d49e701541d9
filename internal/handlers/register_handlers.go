package handlers

import (
	portssvc "github.com/medrar/medrar_books_app/internal/core/ports/services"
	"github.com/medrar/medrar_books_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using
// interfaces. commitLimiter guards the draft-commit route; pass nil to run
// without rate limiting (tests).
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	commitLimiter gin.HandlerFunc,
) {
	registerHomeRoutes(r)

	v1 := r.Group("/api/v1")

	registerProductRoutes(v1, services.Product)
	registerContactRoutes(v1, services.Contact)
	registerPaymentRoutes(v1, services.Ledger)
	registerInvoiceRoutes(v1, services.Invoice, commitLimiter)
}
