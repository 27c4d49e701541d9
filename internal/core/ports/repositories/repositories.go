package repositories

// RepositoryProvider bundles one repository per collection so wiring code can
// pass the whole store around as a unit.
type RepositoryProvider struct {
	ProductRepo ProductRepositoryFacade
	ContactRepo ContactRepositoryFacade
	InvoiceRepo InvoiceRepositoryFacade
	PaymentRepo PaymentRepositoryFacade
}
