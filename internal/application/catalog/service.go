package catalog

import (
	"context"
	"time"

	"github.com/baechuer/commerce-api/internal/domain"
)

type Service struct {
	categories CategoryRepo
	customers  CustomerRepo
	products   ProductRepo
	orders     OrderRepo

	now func() time.Time
}

func NewService(categories CategoryRepo, customers CustomerRepo, products ProductRepo, orders OrderRepo) *Service {
	return &Service{
		categories: categories,
		customers:  customers,
		products:   products,
		orders:     orders,
		now:        time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// ---------- categories ----------

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	return s.categories.Get(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	if c.Name == "" {
		return domain.Category{}, domain.ErrMissingField("name")
	}
	c.ID = 0
	return s.categories.Create(ctx, c)
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, c domain.Category) (domain.Category, error) {
	if c.Name == "" {
		return domain.Category{}, domain.ErrMissingField("name")
	}
	c.ID = id
	return s.categories.Update(ctx, c)
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}

// ---------- customers ----------

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	return s.customers.Get(ctx, id)
}

func (s *Service) CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	if err := validateCustomer(c); err != nil {
		return domain.Customer{}, err
	}
	c.ID = 0
	return s.customers.Create(ctx, c)
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, c domain.Customer) (domain.Customer, error) {
	if err := validateCustomer(c); err != nil {
		return domain.Customer{}, err
	}
	c.ID = id
	return s.customers.Update(ctx, c)
}

// DeleteCustomer refuses while orders still reference the customer.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	if _, err := s.customers.Get(ctx, id); err != nil {
		return err
	}
	busy, err := s.orders.ExistsForCustomer(ctx, id)
	if err != nil {
		return err
	}
	if busy {
		return domain.ErrCustomerHasOrders()
	}
	return s.customers.Delete(ctx, id)
}

func validateCustomer(c domain.Customer) error {
	if c.Name == "" {
		return domain.ErrMissingField("name")
	}
	if c.Email == "" {
		return domain.ErrMissingField("email")
	}
	return nil
}

// ---------- products ----------

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := validateProduct(p); err != nil {
		return domain.Product{}, err
	}
	p.ID = 0
	return s.products.Create(ctx, p)
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, p domain.Product) (domain.Product, error) {
	if err := validateProduct(p); err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	return s.products.Update(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

func validateProduct(p domain.Product) error {
	if p.Name == "" {
		return domain.ErrMissingField("name")
	}
	if p.Price < 0 {
		return domain.ErrInvalidField("price", "must not be negative")
	}
	return nil
}

// ---------- orders ----------

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *Service) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	return s.orders.Get(ctx, id)
}

// CreateOrder stamps OrderDate with the current time and defaults Status.
func (s *Service) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	if err := s.prepareOrder(ctx, &o); err != nil {
		return domain.Order{}, err
	}
	o.ID = 0
	o.OrderDate = s.now().UTC()
	return s.orders.Create(ctx, o)
}

// UpdateOrder keeps the original OrderDate.
func (s *Service) UpdateOrder(ctx context.Context, id int64, o domain.Order) (domain.Order, error) {
	existing, err := s.orders.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.prepareOrder(ctx, &o); err != nil {
		return domain.Order{}, err
	}
	o.ID = id
	o.OrderDate = existing.OrderDate
	return s.orders.Update(ctx, o)
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	return s.orders.Delete(ctx, id)
}

func (s *Service) prepareOrder(ctx context.Context, o *domain.Order) error {
	if o.OrderNumber == "" {
		return domain.ErrMissingField("order_number")
	}
	if o.TotalAmount < 0 {
		return domain.ErrInvalidField("total_amount", "must not be negative")
	}
	if o.Status == "" {
		o.Status = domain.DefaultOrderStatus
	}
	if _, err := s.customers.Get(ctx, o.CustomerID); err != nil {
		return err
	}
	return nil
}
