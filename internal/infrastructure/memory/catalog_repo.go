package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/commerce-api/internal/domain"
)

// table is a mutex-guarded id -> row map shared by the catalog repos.
type table[T any] struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]T

	id       func(T) int64
	setID    func(*T, int64)
	notFound func() *domain.Error
}

func newTable[T any](id func(T) int64, setID func(*T, int64), notFound func() *domain.Error) *table[T] {
	return &table[T]{
		rows:     make(map[int64]T),
		id:       id,
		setID:    setID,
		notFound: notFound,
	}
}

func (t *table[T]) List(ctx context.Context) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.rows))
	for _, v := range t.rows {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return t.id(out[i]) < t.id(out[j]) })
	return out, nil
}

func (t *table[T]) Get(ctx context.Context, id int64) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, t.notFound()
	}
	return v, nil
}

func (t *table[T]) Create(ctx context.Context, v T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	t.setID(&v, t.nextID)
	t.rows[t.nextID] = v
	return v, nil
}

func (t *table[T]) Update(ctx context.Context, v T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.id(v)
	if _, ok := t.rows[id]; !ok {
		var zero T
		return zero, t.notFound()
	}
	t.rows[id] = v
	return v, nil
}

func (t *table[T]) Delete(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return t.notFound()
	}
	delete(t.rows, id)
	return nil
}

type CategoryRepo struct{ *table[domain.Category] }

func NewCategoryRepo() *CategoryRepo {
	return &CategoryRepo{newTable(
		func(c domain.Category) int64 { return c.ID },
		func(c *domain.Category, id int64) { c.ID = id },
		domain.ErrCategoryNotFound,
	)}
}

type CustomerRepo struct{ *table[domain.Customer] }

func NewCustomerRepo() *CustomerRepo {
	return &CustomerRepo{newTable(
		func(c domain.Customer) int64 { return c.ID },
		func(c *domain.Customer, id int64) { c.ID = id },
		domain.ErrCustomerNotFound,
	)}
}

type ProductRepo struct{ *table[domain.Product] }

func NewProductRepo() *ProductRepo {
	return &ProductRepo{newTable(
		func(p domain.Product) int64 { return p.ID },
		func(p *domain.Product, id int64) { p.ID = id },
		domain.ErrProductNotFound,
	)}
}

// OrderRepo resolves CustomerName from customers on every read, like the
// join the postgres repo performs.
type OrderRepo struct {
	rows      *table[domain.Order]
	customers *CustomerRepo
}

func NewOrderRepo(customers *CustomerRepo) *OrderRepo {
	return &OrderRepo{
		rows: newTable(
			func(o domain.Order) int64 { return o.ID },
			func(o *domain.Order, id int64) { o.ID = id },
			domain.ErrOrderNotFound,
		),
		customers: customers,
	}
}

func (r *OrderRepo) withCustomer(ctx context.Context, o domain.Order) domain.Order {
	o.CustomerName = ""
	if c, err := r.customers.Get(ctx, o.CustomerID); err == nil {
		o.CustomerName = c.Name
	}
	return o
}

func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	list, err := r.rows.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i] = r.withCustomer(ctx, list[i])
	}
	return list, nil
}

func (r *OrderRepo) Get(ctx context.Context, id int64) (domain.Order, error) {
	o, err := r.rows.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return r.withCustomer(ctx, o), nil
}

func (r *OrderRepo) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	if _, err := r.customers.Get(ctx, o.CustomerID); err != nil {
		return domain.Order{}, err
	}
	o.CustomerName = ""
	created, err := r.rows.Create(ctx, o)
	if err != nil {
		return domain.Order{}, err
	}
	return r.withCustomer(ctx, created), nil
}

func (r *OrderRepo) Update(ctx context.Context, o domain.Order) (domain.Order, error) {
	if _, err := r.customers.Get(ctx, o.CustomerID); err != nil {
		return domain.Order{}, err
	}
	o.CustomerName = ""
	updated, err := r.rows.Update(ctx, o)
	if err != nil {
		return domain.Order{}, err
	}
	return r.withCustomer(ctx, updated), nil
}

func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	return r.rows.Delete(ctx, id)
}

func (r *OrderRepo) ExistsForCustomer(ctx context.Context, customerID int64) (bool, error) {
	r.rows.mu.RLock()
	defer r.rows.mu.RUnlock()

	for _, o := range r.rows.rows {
		if o.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}
