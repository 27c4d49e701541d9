package services

import (
	"github.com/medrar/medrar_books_app/internal/core/ports/events"
	portsrepo "github.com/medrar/medrar_books_app/internal/core/ports/repositories"
	portssvc "github.com/medrar/medrar_books_app/internal/core/ports/services"
)

// NewServiceContainer wires every service with its dependencies. The ledger
// owns all balance mutations; the invoice composer and handlers go through it.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	reconciler := NewPriceReconciler(repos.ProductRepo)
	ledger := NewLedgerService(repos.ContactRepo, repos.InvoiceRepo, repos.PaymentRepo, publisher)

	return &portssvc.ServiceContainer{
		Product:    NewProductService(repos.ProductRepo),
		Contact:    NewContactService(repos.ContactRepo),
		Ledger:     ledger,
		Invoice:    NewInvoiceService(repos.ContactRepo, repos.ProductRepo, repos.InvoiceRepo, ledger, reconciler),
		Reconciler: reconciler,
	}
}
