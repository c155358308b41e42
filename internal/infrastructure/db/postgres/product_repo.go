package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/commerce-api/internal/domain"
)

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `id, name, price_cents, description`

func scanProduct(s rowScanner) (domain.Product, error) {
	var (
		p     domain.Product
		cents int64
	)
	if err := s.Scan(&p.ID, &p.Name, &cents, &p.Description); err != nil {
		return domain.Product{}, err
	}
	p.Price = domain.Money(cents)
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products ORDER BY id;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1;`
	return r.one(ctx, q, id)
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	const q = `
INSERT INTO products (name, price_cents, description)
VALUES ($1, $2, $3)
RETURNING ` + productColumns + `;`
	return r.one(ctx, q, p.Name, int64(p.Price), p.Description)
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	const q = `
UPDATE products
SET name = $2,
    price_cents = $3,
    description = $4
WHERE id = $1
RETURNING ` + productColumns + `;`
	return r.one(ctx, q, p.ID, p.Name, int64(p.Price), p.Description)
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, `DELETE FROM products WHERE id = $1;`, id, domain.ErrProductNotFound)
}

func (r *ProductRepo) one(ctx context.Context, q string, args ...any) (domain.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if isNoRows(err) {
			return domain.Product{}, domain.ErrProductNotFound()
		}
		return domain.Product{}, domain.ErrDBUnavailable(err)
	}
	return p, nil
}
