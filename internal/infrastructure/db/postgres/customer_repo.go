package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/commerce-api/internal/domain"
)

type CustomerRepo struct {
	db *sql.DB
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

const customerColumns = `id, name, email, mobile`

func scanCustomer(s rowScanner) (domain.Customer, error) {
	var c domain.Customer
	err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Mobile)
	return c, err
}

func (r *CustomerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers ORDER BY id;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *CustomerRepo) Get(ctx context.Context, id int64) (domain.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1;`
	return r.one(ctx, q, id)
}

func (r *CustomerRepo) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	const q = `
INSERT INTO customers (name, email, mobile)
VALUES ($1, $2, $3)
RETURNING ` + customerColumns + `;`
	return r.one(ctx, q, c.Name, c.Email, c.Mobile)
}

func (r *CustomerRepo) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	const q = `
UPDATE customers
SET name = $2,
    email = $3,
    mobile = $4
WHERE id = $1
RETURNING ` + customerColumns + `;`
	return r.one(ctx, q, c.ID, c.Name, c.Email, c.Mobile)
}

// Delete relies on the orders FK (ON DELETE RESTRICT) as the last guard.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	err := deleteByID(ctx, r.db, `DELETE FROM customers WHERE id = $1;`, id, domain.ErrCustomerNotFound)
	if err != nil && isForeignKeyViolation(err) {
		return domain.ErrCustomerHasOrders()
	}
	return err
}

func (r *CustomerRepo) one(ctx context.Context, q string, args ...any) (domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if isNoRows(err) {
			return domain.Customer{}, domain.ErrCustomerNotFound()
		}
		return domain.Customer{}, domain.ErrDBUnavailable(err)
	}
	return c, nil
}
