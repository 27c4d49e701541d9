package dto

import (
	"time"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateContactRequest defines the data needed to create a customer or
// supplier. New contacts always start with a zero balance.
type CreateContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// UpdateContactRequest defines the data allowed for updating a contact.
// The balance is deliberately absent: it is only ever moved by invoices and
// payments.
type UpdateContactRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// ContactResponse defines the data returned for a customer or supplier.
type ContactResponse struct {
	ContactID     int64              `json:"contactID"`
	Kind          domain.ContactKind `json:"kind"`
	Name          string             `json:"name"`
	Phone         string             `json:"phone"`
	Balance       decimal.Decimal    `json:"balance"`
	CreatedAt     time.Time          `json:"createdAt"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
}

// ToContactResponse converts a domain.Contact to its response DTO.
func ToContactResponse(c *domain.Contact) ContactResponse {
	return ContactResponse{
		ContactID:     c.ContactID,
		Kind:          c.Kind,
		Name:          c.Name,
		Phone:         c.Phone,
		Balance:       c.Balance,
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// ToContactResponses converts a slice of contacts.
func ToContactResponses(contacts []domain.Contact) []ContactResponse {
	resps := make([]ContactResponse, len(contacts))
	for i := range contacts {
		resps[i] = ToContactResponse(&contacts[i])
	}
	return resps
}
