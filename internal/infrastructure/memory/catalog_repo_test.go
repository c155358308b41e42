package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/commerce-api/internal/domain"
)

func TestCategoryRepo_CRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := NewCategoryRepo()

	a, err := r.Create(ctx, domain.Category{Name: "Books", IsActive: true})
	require.NoError(t, err)
	b, err := r.Create(ctx, domain.Category{Name: "Games"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Books", list[0].Name)

	b.Name = "Video Games"
	_, err = r.Update(ctx, b)
	require.NoError(t, err)
	got, err := r.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Video Games", got.Name)

	require.NoError(t, r.Delete(ctx, a.ID))
	_, err = r.Get(ctx, a.ID)
	assert.True(t, domain.Is(err, "category_not_found"))
	assert.True(t, domain.Is(r.Delete(ctx, a.ID), "category_not_found"))

	_, err = r.Update(ctx, domain.Category{ID: 77, Name: "x"})
	assert.True(t, domain.Is(err, "category_not_found"))
}

func TestProductRepo_NotFoundCode(t *testing.T) {
	t.Parallel()
	_, err := NewProductRepo().Get(context.Background(), 1)
	assert.True(t, domain.Is(err, "product_not_found"))
}

func TestOrderRepo_CustomerJoin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	customers := NewCustomerRepo()
	orders := NewOrderRepo(customers)

	c, err := customers.Create(ctx, domain.Customer{Name: "Ann", Email: "ann@x.io"})
	require.NoError(t, err)

	o, err := orders.Create(ctx, domain.Order{OrderNumber: "SO-1", CustomerID: c.ID, TotalAmount: 1999, Status: "Pending"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", o.CustomerName)

	c.Name = "Ann B."
	_, err = customers.Update(ctx, c)
	require.NoError(t, err)

	got, err := orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann B.", got.CustomerName)

	busy, err := orders.ExistsForCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, busy)

	require.NoError(t, orders.Delete(ctx, o.ID))
	busy, err = orders.ExistsForCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestOrderRepo_UnknownCustomer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	orders := NewOrderRepo(NewCustomerRepo())

	_, err := orders.Create(ctx, domain.Order{OrderNumber: "SO-1", CustomerID: 5})
	assert.True(t, domain.Is(err, "customer_not_found"))
}
