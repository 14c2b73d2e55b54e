package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
)

// pqUniqueViolation is the postgres error code for a unique constraint violation
const pqUniqueViolation = "23505"

// CustomerRepositoryInterface defines methods used by service
type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *model.Customer) error
	GetByID(ctx context.Context, id int) (*model.Customer, error)
	List(ctx context.Context, filter model.CustomerFilter) ([]model.Customer, int, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id int) error
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customers (first_name, last_name, phone_number)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	err := r.DB.QueryRowxContext(ctx, query, c.FirstName, c.LastName, c.PhoneNumber).Scan(&c.ID)
	return translateCustomerError(err)
}

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	query := `
        SELECT id, first_name, last_name, phone_number
        FROM customers
        WHERE id = $1
    `
	var c model.Customer
	if err := r.DB.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCustomerNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

// List returns one page of distinct customers and the total number matching the filter.
// filter.Limit must already be positive.
func (r *CustomerRepository) List(ctx context.Context, filter model.CustomerFilter) ([]model.Customer, int, error) {
	from := `
        FROM customers c
        LEFT JOIN addresses a ON c.id = a.customer_id`
	args := []interface{}{}
	argPos := 1

	if search := strings.TrimSpace(filter.Search); search != "" {
		from += fmt.Sprintf(`
        WHERE (c.first_name ILIKE $%[1]d OR c.last_name ILIKE $%[1]d
            OR a.city ILIKE $%[1]d OR a.state ILIKE $%[1]d OR a.pin_code ILIKE $%[1]d)`, argPos)
		args = append(args, containsPattern(search))
		argPos++
	}

	orderBy := SortColumn(filter.Sort) + " " + SortOrder(filter.Order)
	if SortColumn(filter.Sort) != "c.id" {
		// equal names would otherwise shift between offset pages
		orderBy += ", c.id ASC"
	}
	query := `SELECT DISTINCT c.id, c.first_name, c.last_name, c.phone_number` + from +
		fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", orderBy, argPos, argPos+1)

	customers := []model.Customer{}
	if err := r.DB.SelectContext(ctx, &customers, query, append(args, filter.Limit, filter.Offset())...); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(DISTINCT c.id)`+from, args...); err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	query := `
        UPDATE customers
        SET first_name = $1, last_name = $2, phone_number = $3
        WHERE id = $4
    `
	res, err := r.DB.ExecContext(ctx, query, c.FirstName, c.LastName, c.PhoneNumber, c.ID)
	if err != nil {
		return translateCustomerError(err)
	}
	return requireAffected(res, appErrors.NewCustomerNotFound(c.ID))
}

// Delete removes a customer; its addresses go with it via ON DELETE CASCADE
func (r *CustomerRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, appErrors.NewCustomerNotFound(id))
}

func translateCustomerError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return &appErrors.ConflictError{Field: "phone_number", Err: err}
	}
	return err
}

// requireAffected turns a zero row count into notFound
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
