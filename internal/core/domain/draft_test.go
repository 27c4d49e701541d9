package domain_test

import (
	"testing"
	"time"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDraft() *domain.InvoiceDraft {
	return domain.NewInvoiceDraft("draft-1", domain.SalesInvoice, time.Now().UTC())
}

func productWithPrice(id int64, name string, price string) domain.Product {
	return domain.Product{
		ProductID: id,
		Name:      name,
		Price:     decimal.NewNullDecimal(decimal.RequireFromString(price)),
	}
}

func TestNewInvoiceDraftStartsEmpty(t *testing.T) {
	d := newTestDraft()

	assert.Equal(t, domain.DraftEmpty, d.Status)
	assert.Empty(t, d.Lines)
	assert.True(t, d.Total().IsZero())
}

func TestAddLineSeedsFromCatalogPrice(t *testing.T) {
	d := newTestDraft()

	require.NoError(t, d.AddLine(productWithPrice(1, "Rice 5kg", "10.00")))

	require.Len(t, d.Lines, 1)
	line := d.Lines[0]
	assert.Equal(t, int64(1), line.ProductID)
	assert.Equal(t, "Rice 5kg", line.ProductName)
	assert.Equal(t, int64(1), line.Quantity)
	assert.True(t, line.Price.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, line.Total.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, domain.DraftEditing, d.Status)
}

func TestAddLineWithoutCatalogPriceSeedsZero(t *testing.T) {
	d := newTestDraft()

	require.NoError(t, d.AddLine(domain.Product{ProductID: 7, Name: "New item"}))

	require.Len(t, d.Lines, 1)
	assert.True(t, d.Lines[0].Price.IsZero())
	assert.True(t, d.Lines[0].Total.IsZero())
}

func TestAddLineMergesExistingProduct(t *testing.T) {
	d := newTestDraft()
	p := productWithPrice(1, "Rice 5kg", "10.00")

	require.NoError(t, d.AddLine(p))
	require.NoError(t, d.AddLine(p))

	require.Len(t, d.Lines, 1)
	assert.Equal(t, int64(2), d.Lines[0].Quantity)
	assert.True(t, d.Lines[0].Total.Equal(decimal.RequireFromString("20.00")))
}

func TestSetLineQuantityValidation(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		qty     int64
		wantErr error
	}{
		{"valid", 0, 3, nil},
		{"zero quantity", 0, 0, domain.ErrInvalidQuantity},
		{"negative quantity", 0, -1, domain.ErrInvalidQuantity},
		{"index out of range", 5, 2, domain.ErrLineNotFound},
		{"negative index", -1, 2, domain.ErrLineNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := newTestDraft()
			require.NoError(t, d.AddLine(productWithPrice(1, "Rice 5kg", "10.00")))

			err := d.SetLineQuantity(tc.index, tc.qty)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, int64(1), d.Lines[0].Quantity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.qty, d.Lines[0].Quantity)
			assert.True(t, d.Lines[0].Total.Equal(decimal.RequireFromString("30.00")))
		})
	}
}

func TestSetLinePriceValidation(t *testing.T) {
	d := newTestDraft()
	require.NoError(t, d.AddLine(productWithPrice(1, "Rice 5kg", "10.00")))

	assert.ErrorIs(t, d.SetLinePrice(0, decimal.RequireFromString("-1")), domain.ErrInvalidPrice)
	assert.ErrorIs(t, d.SetLinePrice(3, decimal.RequireFromString("5")), domain.ErrLineNotFound)

	require.NoError(t, d.SetLinePrice(0, decimal.RequireFromString("12.50")))
	assert.True(t, d.Lines[0].Total.Equal(decimal.RequireFromString("12.50")))
}

func TestSetLinePriceZeroIsAllowed(t *testing.T) {
	d := newTestDraft()
	require.NoError(t, d.AddLine(productWithPrice(1, "Rice 5kg", "10.00")))

	require.NoError(t, d.SetLinePrice(0, decimal.Zero))
	assert.True(t, d.Lines[0].Total.IsZero())
}

func TestRemoveLineShiftsRemainingLines(t *testing.T) {
	d := newTestDraft()
	require.NoError(t, d.AddLine(productWithPrice(1, "Rice 5kg", "10.00")))
	require.NoError(t, d.AddLine(productWithPrice(2, "Sugar 1kg", "3.00")))
	require.NoError(t, d.AddLine(productWithPrice(3, "Oil 1L", "7.00")))

	require.NoError(t, d.RemoveLine(1))

	require.Len(t, d.Lines, 2)
	assert.Equal(t, int64(1), d.Lines[0].ProductID)
	assert.Equal(t, int64(3), d.Lines[1].ProductID)
	assert.ErrorIs(t, d.RemoveLine(2), domain.ErrLineNotFound)
}

func TestTotalIsPureAndIdempotent(t *testing.T) {
	d := newTestDraft()
	require.NoError(t, d.AddLine(productWithPrice(1, "Rice 5kg", "10.00")))
	require.NoError(t, d.SetLineQuantity(0, 2))
	require.NoError(t, d.AddLine(productWithPrice(2, "Sugar 1kg", "5.00")))

	want := decimal.RequireFromString("25.00")
	assert.True(t, d.Total().Equal(want))
	// Unchanged between mutations, no matter how often it is read.
	assert.True(t, d.Total().Equal(want))
	assert.True(t, d.Total().Equal(want))
}

func TestValidateRequiresCounterpartyAndLines(t *testing.T) {
	d := newTestDraft()
	assert.ErrorIs(t, d.Validate(), domain.ErrCounterpartyRequired)

	require.NoError(t, d.SelectCounterparty(domain.Contact{ContactID: 4, Kind: domain.Customer, Name: "Ahmed"}))
	assert.ErrorIs(t, d.Validate(), domain.ErrEmptyInvoice)

	require.NoError(t, d.AddLine(productWithPrice(1, "Rice 5kg", "10.00")))
	require.NoError(t, d.Validate())
	assert.Equal(t, domain.DraftReady, d.Status)
}

func TestCommittedDraftRejectsAllMutations(t *testing.T) {
	d := newTestDraft()
	require.NoError(t, d.SelectCounterparty(domain.Contact{ContactID: 4, Kind: domain.Customer, Name: "Ahmed"}))
	require.NoError(t, d.AddLine(productWithPrice(1, "Rice 5kg", "10.00")))
	require.NoError(t, d.Validate())
	d.MarkCommitted()

	assert.ErrorIs(t, d.AddLine(productWithPrice(2, "Sugar 1kg", "3.00")), domain.ErrDraftCommitted)
	assert.ErrorIs(t, d.SetLineQuantity(0, 2), domain.ErrDraftCommitted)
	assert.ErrorIs(t, d.SetLinePrice(0, decimal.Zero), domain.ErrDraftCommitted)
	assert.ErrorIs(t, d.RemoveLine(0), domain.ErrDraftCommitted)
	assert.ErrorIs(t, d.SelectCounterparty(domain.Contact{ContactID: 5}), domain.ErrDraftCommitted)
	assert.ErrorIs(t, d.Validate(), domain.ErrDraftCommitted)
	assert.Equal(t, domain.DraftCommitted, d.Status)
}

func TestUpdateLineAppliesBothValuesOrNeither(t *testing.T) {
	d := newTestDraft()
	require.NoError(t, d.AddLine(productWithPrice(1, "Rice 5kg", "10.00")))

	qty := int64(3)
	badPrice := decimal.RequireFromString("-1")
	assert.ErrorIs(t, d.UpdateLine(0, &qty, &badPrice), domain.ErrInvalidPrice)
	// The valid quantity must not have been applied alongside the rejection.
	assert.Equal(t, int64(1), d.Lines[0].Quantity)
	assert.True(t, d.Lines[0].Total.Equal(decimal.RequireFromString("10.00")))

	badQty := int64(0)
	goodPrice := decimal.RequireFromString("12.00")
	assert.ErrorIs(t, d.UpdateLine(0, &badQty, &goodPrice), domain.ErrInvalidQuantity)
	assert.True(t, d.Lines[0].Price.Equal(decimal.RequireFromString("10.00")))

	require.NoError(t, d.UpdateLine(0, &qty, &goodPrice))
	assert.Equal(t, int64(3), d.Lines[0].Quantity)
	assert.True(t, d.Lines[0].Total.Equal(decimal.RequireFromString("36.00")))
}

func TestBeginCommitClaimsDraftOnce(t *testing.T) {
	d := newTestDraft()
	require.NoError(t, d.SelectCounterparty(domain.Contact{ContactID: 4, Kind: domain.Customer, Name: "Ahmed"}))
	require.NoError(t, d.AddLine(productWithPrice(1, "Rice 5kg", "10.00")))

	require.NoError(t, d.BeginCommit())
	assert.Equal(t, domain.DraftCommitting, d.Status)

	// The claim blocks a second commit and every edit.
	assert.ErrorIs(t, d.BeginCommit(), domain.ErrDraftCommitted)
	assert.ErrorIs(t, d.SetLineQuantity(0, 2), domain.ErrDraftCommitted)

	// Releasing the claim makes the draft editable and committable again.
	d.AbortCommit()
	assert.Equal(t, domain.DraftEditing, d.Status)
	require.NoError(t, d.SetLineQuantity(0, 2))
	require.NoError(t, d.BeginCommit())
	d.MarkCommitted()
	assert.Equal(t, domain.DraftCommitted, d.Status)
	d.AbortCommit() // Never reopens a committed draft
	assert.Equal(t, domain.DraftCommitted, d.Status)
}

func TestSelectCounterpartyReplacesPreviousChoice(t *testing.T) {
	d := newTestDraft()
	require.NoError(t, d.SelectCounterparty(domain.Contact{ContactID: 1, Name: "Ahmed"}))
	require.NoError(t, d.SelectCounterparty(domain.Contact{ContactID: 2, Name: "Sara"}))

	assert.Equal(t, int64(2), d.ContactID)
	assert.Equal(t, "Sara", d.ContactName)
}
