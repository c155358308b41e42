package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/commerce-api/internal/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var orderCols = []string{"id", "order_number", "customer_id", "name", "order_date", "total_amount_cents", "status", "notes"}

func TestCategoryRepo_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepo(db)

	mock.ExpectQuery(`SELECT id, name, is_active FROM categories ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_active"}).
			AddRow(int64(1), "Books", true).
			AddRow(int64(2), "Games", false))

	list, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.Category{ID: 2, Name: "Games"}, list[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepo_List_EmptyIsNotNil(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM categories`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_active"}))

	list, err := NewCategoryRepo(db).List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCategoryRepo_Update_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`UPDATE categories`).
		WithArgs(int64(9), "x", true).
		WillReturnError(sql.ErrNoRows)

	_, err := NewCategoryRepo(db).Update(context.Background(), domain.Category{ID: 9, Name: "x", IsActive: true})

	assert.True(t, domain.Is(err, "category_not_found"), "got %v", err)
}

func TestCategoryRepo_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepo(db)

	mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.True(t, domain.Is(repo.Delete(context.Background(), 2), "category_not_found"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepo_Delete_ForeignKeyMapsToHasOrders(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM customers`).
		WithArgs(int64(4)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

	err := NewCustomerRepo(db).Delete(context.Background(), 4)

	assert.True(t, domain.Is(err, "customer_has_orders"), "got %v", err)
}

func TestCustomerRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO customers`).
		WithArgs("Ann", "ann@x.io", "0400").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "mobile"}).
			AddRow(int64(3), "Ann", "ann@x.io", "0400"))

	c, err := NewCustomerRepo(db).Create(context.Background(), domain.Customer{Name: "Ann", Email: "ann@x.io", Mobile: "0400"})

	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)
}

func TestProductRepo_StoresCents(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO products`).
		WithArgs("Pen", int64(1999), "blue").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price_cents", "description"}).
			AddRow(int64(1), "Pen", int64(1999), "blue"))

	p, err := NewProductRepo(db).Create(context.Background(), domain.Product{Name: "Pen", Price: 1999, Description: "blue"})

	require.NoError(t, err)
	assert.Equal(t, domain.Money(1999), p.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_Get_DBError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM products WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnError(errors.New("boom"))

	_, err := NewProductRepo(db).Get(context.Background(), 1)

	assert.True(t, domain.Is(err, "db_unavailable"), "got %v", err)
}

func TestOrderRepo_Get_JoinsCustomerName(t *testing.T) {
	db, mock := newMock(t)
	date := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM orders o\s+JOIN customers c ON c.id = o.customer_id\s+WHERE o.id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(int64(5), "SO-5", int64(2), "Ann", date, int64(4500), "Shipped", ""))

	o, err := NewOrderRepo(db).Get(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, "Ann", o.CustomerName)
	assert.Equal(t, domain.Money(4500), o.TotalAmount)
	assert.Equal(t, date, o.OrderDate)
}

func TestOrderRepo_Create_UnknownCustomer(t *testing.T) {
	db, mock := newMock(t)
	date := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs("SO-1", int64(99), date, int64(100), "Pending", "").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

	_, err := NewOrderRepo(db).Create(context.Background(), domain.Order{
		OrderNumber: "SO-1", CustomerID: 99, OrderDate: date, TotalAmount: 100, Status: "Pending",
	})

	assert.True(t, domain.Is(err, "customer_not_found"), "got %v", err)
}

func TestOrderRepo_ExistsForCustomer(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := NewOrderRepo(db).ExistsForCustomer(context.Background(), 2)

	require.NoError(t, err)
	assert.True(t, ok)
}
