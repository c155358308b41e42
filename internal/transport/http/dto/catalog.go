package dto

import (
	"strings"
	"time"

	"github.com/baechuer/commerce-api/internal/domain"
)

// -------- Categories --------

type CategoryRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	IsActive *bool  `json:"isActive"`
}

func (r *CategoryRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return Validate(r)
}

// ToDomain defaults IsActive to true when omitted.
func (r CategoryRequest) ToDomain() domain.Category {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return domain.Category{Name: r.Name, IsActive: active}
}

type CategoryView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

func NewCategoryView(c domain.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, IsActive: c.IsActive}
}

// -------- Customers --------

type CustomerRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Email  string `json:"email" validate:"required,email,max=255"`
	Mobile string `json:"mobile" validate:"max=20"`
}

func (r *CustomerRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Mobile = strings.TrimSpace(r.Mobile)
	return Validate(r)
}

func (r CustomerRequest) ToDomain() domain.Customer {
	return domain.Customer{Name: r.Name, Email: r.Email, Mobile: r.Mobile}
}

type CustomerView struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile,omitempty"`
}

func NewCustomerView(c domain.Customer) CustomerView {
	return CustomerView{ID: c.ID, Name: c.Name, Email: c.Email, Mobile: c.Mobile}
}

// -------- Products --------

type ProductRequest struct {
	Name        string       `json:"name" validate:"required,max=200"`
	Price       domain.Money `json:"price" validate:"min=0"`
	Description string       `json:"description" validate:"max=1000"`
}

func (r *ProductRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return Validate(r)
}

func (r ProductRequest) ToDomain() domain.Product {
	return domain.Product{Name: r.Name, Price: r.Price, Description: r.Description}
}

type ProductView struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Price       domain.Money `json:"price"`
	Description string       `json:"description,omitempty"`
}

func NewProductView(p domain.Product) ProductView {
	return ProductView{ID: p.ID, Name: p.Name, Price: p.Price, Description: p.Description}
}

// -------- Orders --------

type OrderRequest struct {
	OrderNumber string       `json:"orderNumber" validate:"required,max=50"`
	CustomerID  int64        `json:"customerId" validate:"required,gt=0"`
	TotalAmount domain.Money `json:"totalAmount" validate:"min=0"`
	Status      string       `json:"status" validate:"max=50"`
	Notes       string       `json:"notes" validate:"max=500"`
}

func (r *OrderRequest) Validate() error {
	r.OrderNumber = strings.TrimSpace(r.OrderNumber)
	r.Status = strings.TrimSpace(r.Status)
	return Validate(r)
}

func (r OrderRequest) ToDomain() domain.Order {
	return domain.Order{
		OrderNumber: r.OrderNumber,
		CustomerID:  r.CustomerID,
		TotalAmount: r.TotalAmount,
		Status:      r.Status,
		Notes:       r.Notes,
	}
}

type OrderView struct {
	ID           int64        `json:"id"`
	OrderNumber  string       `json:"orderNumber"`
	CustomerID   int64        `json:"customerId"`
	CustomerName string       `json:"customerName,omitempty"`
	OrderDate    time.Time    `json:"orderDate"`
	TotalAmount  domain.Money `json:"totalAmount"`
	Status       string       `json:"status"`
	Notes        string       `json:"notes,omitempty"`
}

func NewOrderView(o domain.Order) OrderView {
	return OrderView{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		OrderDate:    o.OrderDate.UTC(),
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
		Notes:        o.Notes,
	}
}

// mapSlice converts a list of domain values into views.
func mapSlice[T, V any](in []T, f func(T) V) []V {
	out := make([]V, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

func CategoryViews(in []domain.Category) []CategoryView { return mapSlice(in, NewCategoryView) }
func CustomerViews(in []domain.Customer) []CustomerView { return mapSlice(in, NewCustomerView) }
func ProductViews(in []domain.Product) []ProductView    { return mapSlice(in, NewProductView) }
func OrderViews(in []domain.Order) []OrderView          { return mapSlice(in, NewOrderView) }
