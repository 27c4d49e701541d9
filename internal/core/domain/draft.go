package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DraftStatus tracks the lifecycle of an in-progress invoice draft.
type DraftStatus string

const (
	DraftEmpty      DraftStatus = "EMPTY"
	DraftEditing    DraftStatus = "EDITING"
	DraftReady      DraftStatus = "READY"
	DraftCommitting DraftStatus = "COMMITTING"
	DraftCommitted  DraftStatus = "COMMITTED"
)

var (
	ErrInvalidQuantity      = errors.New("line quantity must be at least 1")
	ErrInvalidPrice         = errors.New("line price must not be negative")
	ErrLineNotFound         = errors.New("no invoice line at that position")
	ErrDraftCommitted       = errors.New("draft is already committed")
	ErrCounterpartyRequired = errors.New("a counterparty must be selected before committing")
	ErrEmptyInvoice         = errors.New("an invoice must have at least one line")
)

// InvoiceDraft is the running cart an invoice is composed from. It holds no
// store state: line prices are seeded from the catalog when a line is added,
// and everything else lives in memory until Commit. COMMITTED is terminal;
// to amend, the user discards the draft and starts a new one.
type InvoiceDraft struct {
	DraftID     string      `json:"draftID"`
	Kind        InvoiceKind `json:"kind"`
	ContactID   int64       `json:"contactID"` // 0 until a counterparty is selected
	ContactName string      `json:"contactName"`
	Lines       []InvoiceLine `json:"lines"`
	Status      DraftStatus   `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// NewInvoiceDraft creates an empty draft for the given invoice kind.
func NewInvoiceDraft(draftID string, kind InvoiceKind, now time.Time) *InvoiceDraft {
	return &InvoiceDraft{
		DraftID:   draftID,
		Kind:      kind,
		Status:    DraftEmpty,
		CreatedAt: now,
	}
}

func (d *InvoiceDraft) mutable() error {
	if d.Status == DraftCommitting || d.Status == DraftCommitted {
		return ErrDraftCommitted
	}
	return nil
}

// SelectCounterparty binds a contact to the draft. Re-selecting simply
// replaces the previous choice.
func (d *InvoiceDraft) SelectCounterparty(contact Contact) error {
	if err := d.mutable(); err != nil {
		return err
	}
	d.ContactID = contact.ContactID
	d.ContactName = contact.Name
	d.touch()
	return nil
}

// AddLine adds a line for the product. If a line for the same product already
// exists it is merged: quantity goes up by one and the line total is
// recomputed. A new line is seeded with the product's current reference price
// (zero when the product has no price) and quantity 1.
func (d *InvoiceDraft) AddLine(product Product) error {
	if err := d.mutable(); err != nil {
		return err
	}
	for i := range d.Lines {
		if d.Lines[i].ProductID == product.ProductID {
			d.Lines[i].Quantity++
			d.Lines[i].Recalculate()
			d.touch()
			return nil
		}
	}
	line := InvoiceLine{
		ProductID:   product.ProductID,
		ProductName: product.Name,
		Quantity:    1,
		Price:       product.PriceOrZero(),
	}
	line.Recalculate()
	d.Lines = append(d.Lines, line)
	d.touch()
	return nil
}

// SetLineQuantity replaces the quantity of the line at index and recomputes
// that line's total only.
func (d *InvoiceDraft) SetLineQuantity(index int, qty int64) error {
	return d.UpdateLine(index, &qty, nil)
}

// SetLinePrice replaces the unit price of the line at index and recomputes
// that line's total only.
func (d *InvoiceDraft) SetLinePrice(index int, price decimal.Decimal) error {
	return d.UpdateLine(index, nil, &price)
}

// UpdateLine applies a quantity and/or price edit to the line at index as one
// step. Both values are validated before either is written, so a rejected
// edit leaves the line exactly as it was.
func (d *InvoiceDraft) UpdateLine(index int, qty *int64, price *decimal.Decimal) error {
	if err := d.mutable(); err != nil {
		return err
	}
	if index < 0 || index >= len(d.Lines) {
		return ErrLineNotFound
	}
	if qty != nil && *qty < 1 {
		return ErrInvalidQuantity
	}
	if price != nil && price.IsNegative() {
		return ErrInvalidPrice
	}
	if qty != nil {
		d.Lines[index].Quantity = *qty
	}
	if price != nil {
		d.Lines[index].Price = *price
	}
	d.Lines[index].Recalculate()
	d.touch()
	return nil
}

// RemoveLine drops the line at index. Remaining lines keep their identity and
// only shift position.
func (d *InvoiceDraft) RemoveLine(index int) error {
	if err := d.mutable(); err != nil {
		return err
	}
	if index < 0 || index >= len(d.Lines) {
		return ErrLineNotFound
	}
	d.Lines = append(d.Lines[:index], d.Lines[index+1:]...)
	d.touch()
	return nil
}

// Total sums all line totals. Pure: recomputed on every call, never cached.
func (d *InvoiceDraft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.Lines {
		total = total.Add(line.Total)
	}
	return total
}

// Validate checks the commit preconditions and moves the draft to READY.
func (d *InvoiceDraft) Validate() error {
	if err := d.mutable(); err != nil {
		return err
	}
	if d.ContactID == 0 {
		return ErrCounterpartyRequired
	}
	if len(d.Lines) == 0 {
		return ErrEmptyInvoice
	}
	d.Status = DraftReady
	return nil
}

// BeginCommit validates the draft and claims it for a single commit attempt.
// While a commit is in flight every mutation, including a second BeginCommit,
// fails with ErrDraftCommitted, so a retried request can never post the same
// draft twice.
func (d *InvoiceDraft) BeginCommit() error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.Status = DraftCommitting
	return nil
}

// AbortCommit releases a failed commit attempt so the draft can be fixed and
// retried.
func (d *InvoiceDraft) AbortCommit() {
	if d.Status == DraftCommitting {
		d.Status = DraftEditing
	}
}

// MarkCommitted moves the draft to its terminal state.
func (d *InvoiceDraft) MarkCommitted() {
	d.Status = DraftCommitted
}

func (d *InvoiceDraft) touch() {
	if d.Status != DraftCommitted {
		d.Status = DraftEditing
	}
}
