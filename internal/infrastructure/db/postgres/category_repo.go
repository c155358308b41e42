package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/commerce-api/internal/domain"
)

type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

const categoryColumns = `id, name, is_active`

func scanCategory(s rowScanner) (domain.Category, error) {
	var c domain.Category
	err := s.Scan(&c.ID, &c.Name, &c.IsActive)
	return c, err
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories ORDER BY id;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
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

func (r *CategoryRepo) Get(ctx context.Context, id int64) (domain.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1;`
	return r.one(ctx, q, id)
}

func (r *CategoryRepo) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	const q = `
INSERT INTO categories (name, is_active)
VALUES ($1, $2)
RETURNING ` + categoryColumns + `;`
	return r.one(ctx, q, c.Name, c.IsActive)
}

func (r *CategoryRepo) Update(ctx context.Context, c domain.Category) (domain.Category, error) {
	const q = `
UPDATE categories
SET name = $2,
    is_active = $3
WHERE id = $1
RETURNING ` + categoryColumns + `;`
	return r.one(ctx, q, c.ID, c.Name, c.IsActive)
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, `DELETE FROM categories WHERE id = $1;`, id, domain.ErrCategoryNotFound)
}

func (r *CategoryRepo) one(ctx context.Context, q string, args ...any) (domain.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if isNoRows(err) {
			return domain.Category{}, domain.ErrCategoryNotFound()
		}
		return domain.Category{}, domain.ErrDBUnavailable(err)
	}
	return c, nil
}

// deleteByID maps zero affected rows to notFound.
func deleteByID(ctx context.Context, db *sql.DB, q string, id int64, notFound func() *domain.Error) error {
	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return notFound()
	}
	return nil
}
