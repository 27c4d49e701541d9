package pgsql

import (
	portsrepo "github.com/medrar/medrar_books_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres-backed repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ProductRepo: newPgxProductRepository(dbPool),
		ContactRepo: newPgxContactRepository(dbPool),
		InvoiceRepo: newPgxInvoiceRepository(dbPool),
		PaymentRepo: newPgxPaymentRepository(dbPool),
	}
}
