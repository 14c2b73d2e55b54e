package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
)

// AddressRepositoryInterface scopes every mutation to the owning customer
type AddressRepositoryInterface interface {
	Create(ctx context.Context, a *model.Address) error
	ListByCustomer(ctx context.Context, customerID int) ([]model.Address, error)
	Update(ctx context.Context, a *model.Address) error
	Delete(ctx context.Context, customerID, addressID int) error
}

type AddressRepository struct {
	DB *sqlx.DB
}

func NewAddressRepository(db *sqlx.DB) *AddressRepository {
	return &AddressRepository{DB: db}
}

// Create inserts an address for a.CustomerID. An unknown customer surfaces as the raw FK violation.
func (r *AddressRepository) Create(ctx context.Context, a *model.Address) error {
	query := `
        INSERT INTO addresses (customer_id, address_details, city, state, pin_code)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	return r.DB.QueryRowxContext(ctx, query, a.CustomerID, a.AddressDetails, a.City, a.State, a.PinCode).Scan(&a.ID)
}

// ListByCustomer returns an empty slice, not an error, for unknown customers
func (r *AddressRepository) ListByCustomer(ctx context.Context, customerID int) ([]model.Address, error) {
	query := `
        SELECT id, customer_id, address_details, city, state, pin_code
        FROM addresses
        WHERE customer_id = $1
        ORDER BY id
    `
	addresses := []model.Address{}
	if err := r.DB.SelectContext(ctx, &addresses, query, customerID); err != nil {
		return nil, err
	}
	return addresses, nil
}

// Update matches on both the address id and a.CustomerID
func (r *AddressRepository) Update(ctx context.Context, a *model.Address) error {
	query := `
        UPDATE addresses
        SET address_details = $1, city = $2, state = $3, pin_code = $4
        WHERE id = $5 AND customer_id = $6
    `
	res, err := r.DB.ExecContext(ctx, query, a.AddressDetails, a.City, a.State, a.PinCode, a.ID, a.CustomerID)
	if err != nil {
		return err
	}
	return requireAffected(res, appErrors.NewAddressNotFound(a.CustomerID, a.ID))
}

func (r *AddressRepository) Delete(ctx context.Context, customerID, addressID int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1 AND customer_id = $2`, addressID, customerID)
	if err != nil {
		return err
	}
	return requireAffected(res, appErrors.NewAddressNotFound(customerID, addressID))
}

var _ AddressRepositoryInterface = (*AddressRepository)(nil)
