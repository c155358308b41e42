package catalog

import (
	"context"

	"github.com/baechuer/commerce-api/internal/domain"
)

// Repo is the persistence port shared by every catalog resource.
// Get, Update and Delete return the resource's not-found domain error.
type Repo[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, v T) (T, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryRepo = Repo[domain.Category]
type CustomerRepo = Repo[domain.Customer]
type ProductRepo = Repo[domain.Product]

// OrderRepo reads populate Order.CustomerName.
type OrderRepo interface {
	Repo[domain.Order]
	ExistsForCustomer(ctx context.Context, customerID int64) (bool, error)
}
