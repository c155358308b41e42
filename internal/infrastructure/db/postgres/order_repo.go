package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/commerce-api/internal/domain"
)

// OrderRepo reads join customers for CustomerName. Writes go through a CTE so
// the returned row carries the join too.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderSelect = `
SELECT o.id, o.order_number, o.customer_id, c.name, o.order_date,
       o.total_amount_cents, o.status, o.notes
`

func scanOrder(s rowScanner) (domain.Order, error) {
	var (
		o     domain.Order
		cents int64
	)
	err := s.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &o.OrderDate,
		&cents, &o.Status, &o.Notes)
	if err != nil {
		return domain.Order{}, err
	}
	o.TotalAmount = domain.Money(cents)
	o.OrderDate = o.OrderDate.UTC()
	return o, nil
}

func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	const q = orderSelect + `
FROM orders o
JOIN customers c ON c.id = o.customer_id
ORDER BY o.id;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *OrderRepo) Get(ctx context.Context, id int64) (domain.Order, error) {
	const q = orderSelect + `
FROM orders o
JOIN customers c ON c.id = o.customer_id
WHERE o.id = $1;`
	return r.one(ctx, q, id)
}

func (r *OrderRepo) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	const q = `
WITH o AS (
    INSERT INTO orders (order_number, customer_id, order_date, total_amount_cents, status, notes)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING *
)` + orderSelect + `
FROM o
JOIN customers c ON c.id = o.customer_id;`
	return r.one(ctx, q, o.OrderNumber, o.CustomerID, o.OrderDate, int64(o.TotalAmount), o.Status, o.Notes)
}

func (r *OrderRepo) Update(ctx context.Context, o domain.Order) (domain.Order, error) {
	const q = `
WITH o AS (
    UPDATE orders
    SET order_number = $2,
        customer_id = $3,
        total_amount_cents = $4,
        status = $5,
        notes = $6
    WHERE id = $1
    RETURNING *
)` + orderSelect + `
FROM o
JOIN customers c ON c.id = o.customer_id;`
	return r.one(ctx, q, o.ID, o.OrderNumber, o.CustomerID, int64(o.TotalAmount), o.Status, o.Notes)
}

func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, `DELETE FROM orders WHERE id = $1;`, id, domain.ErrOrderNotFound)
}

func (r *OrderRepo) ExistsForCustomer(ctx context.Context, customerID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM orders WHERE customer_id = $1);`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, customerID).Scan(&ok); err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return ok, nil
}

func (r *OrderRepo) one(ctx context.Context, q string, args ...any) (domain.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		switch {
		case isNoRows(err):
			return domain.Order{}, domain.ErrOrderNotFound()
		case isForeignKeyViolation(err):
			return domain.Order{}, domain.ErrCustomerNotFound()
		}
		return domain.Order{}, domain.ErrDBUnavailable(err)
	}
	return o, nil
}
