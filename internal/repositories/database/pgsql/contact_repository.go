package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medrar/medrar_books_app/internal/apperrors"
	"github.com/medrar/medrar_books_app/internal/core/domain"
	portsrepo "github.com/medrar/medrar_books_app/internal/core/ports/repositories"
	"github.com/medrar/medrar_books_app/internal/models"
	"github.com/medrar/medrar_books_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxContactRepository struct {
	BaseRepository
}

// newPgxContactRepository creates a new repository for customer/supplier data.
func newPgxContactRepository(pool *pgxpool.Pool) portsrepo.ContactRepositoryFacade {
	return &PgxContactRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxContactRepository implements portsrepo.ContactRepositoryFacade
var _ portsrepo.ContactRepositoryFacade = (*PgxContactRepository)(nil)

// SaveContact inserts a new contact and returns the identity the database
// assigned to it. New contacts always start at balance zero.
func (r *PgxContactRepository) SaveContact(ctx context.Context, contact domain.Contact) (int64, error) {
	modelContact := mapping.ToModelContact(contact)

	query := `
		INSERT INTO contacts (kind, name, phone, balance, created_at, last_updated_at)
		VALUES ($1, $2, $3, 0, $4, $5)
		RETURNING contact_id;
	`
	var contactID int64
	err := r.Pool.QueryRow(ctx, query,
		modelContact.Kind,
		modelContact.Name,
		modelContact.Phone,
		modelContact.CreatedAt,
		modelContact.LastUpdatedAt,
	).Scan(&contactID)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to save contact", err)
	}
	return contactID, nil
}

// FindContactByID retrieves a contact by kind and ID.
func (r *PgxContactRepository) FindContactByID(ctx context.Context, kind domain.ContactKind, contactID int64) (*domain.Contact, error) {
	query := `
		SELECT contact_id, kind, name, phone, balance, created_at, last_updated_at
		FROM contacts
		WHERE contact_id = $1 AND kind = $2;
	`
	var m models.Contact
	err := r.Pool.QueryRow(ctx, query, contactID, models.ContactKind(kind)).Scan(
		&m.ContactID,
		&m.Kind,
		&m.Name,
		&m.Phone,
		&m.Balance,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find contact %d", contactID), err)
	}

	domainContact := mapping.ToDomainContact(m)
	return &domainContact, nil
}

// ListContacts returns all contacts of the kind ordered by name.
func (r *PgxContactRepository) ListContacts(ctx context.Context, kind domain.ContactKind) ([]domain.Contact, error) {
	query := `
		SELECT contact_id, kind, name, phone, balance, created_at, last_updated_at
		FROM contacts
		WHERE kind = $1
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, models.ContactKind(kind))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query contacts", err)
	}
	defer rows.Close()

	modelContacts := []models.Contact{}
	for rows.Next() {
		var m models.Contact
		if err := rows.Scan(&m.ContactID, &m.Kind, &m.Name, &m.Phone, &m.Balance, &m.CreatedAt, &m.LastUpdatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan contact row", err)
		}
		modelContacts = append(modelContacts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating contact rows", err)
	}

	return mapping.ToDomainContactSlice(modelContacts), nil
}

// UpdateContact replaces name and phone. The balance column is deliberately
// not in the SET list: it only moves inside invoice/payment transactions.
func (r *PgxContactRepository) UpdateContact(ctx context.Context, contact domain.Contact) error {
	modelContact := mapping.ToModelContact(contact)

	query := `
		UPDATE contacts
		SET name = $3,
		    phone = $4,
		    last_updated_at = $5
		WHERE contact_id = $1 AND kind = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelContact.ContactID,
		modelContact.Kind,
		modelContact.Name,
		modelContact.Phone,
		modelContact.LastUpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to update contact %d", modelContact.ContactID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteContact removes a contact. Invoices and payments carry name snapshots
// and no foreign key, so history survives the delete.
func (r *PgxContactRepository) DeleteContact(ctx context.Context, kind domain.ContactKind, contactID int64) error {
	query := `DELETE FROM contacts WHERE contact_id = $1 AND kind = $2;`

	cmdTag, err := r.Pool.Exec(ctx, query, contactID, models.ContactKind(kind))
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to delete contact %d", contactID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// lockContactForUpdate loads a contact row inside tx with a row lock, which
// serializes concurrent balance writes for the same contact.
func lockContactForUpdate(ctx context.Context, tx pgx.Tx, kind models.ContactKind, contactID int64) (decimal.Decimal, error) {
	query := `
		SELECT balance
		FROM contacts
		WHERE contact_id = $1 AND kind = $2
		FOR UPDATE;
	`
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, query, contactID, kind).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, apperrors.NewAppError(500, fmt.Sprintf("failed to lock contact %d", contactID), err)
	}
	return balance, nil
}

// applyBalanceDeltaInTx moves the locked contact's balance by delta and
// returns the resulting balance.
func applyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, kind models.ContactKind, contactID int64, delta decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	query := `
		UPDATE contacts
		SET balance = balance + $3,
		    last_updated_at = $4
		WHERE contact_id = $1 AND kind = $2
		RETURNING balance;
	`
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, query, contactID, kind, delta, now).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, apperrors.NewAppError(500, fmt.Sprintf("failed to update balance of contact %d", contactID), err)
	}
	return balance, nil
}
