package http_handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/commerce-api/internal/application/catalog"
	"github.com/baechuer/commerce-api/internal/domain"
	"github.com/baechuer/commerce-api/internal/transport/http/dto"
	"github.com/baechuer/commerce-api/internal/transport/http/response"
)

// CatalogHandler serves the category, customer, product and order resources.
type CatalogHandler struct {
	svc *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.WriteError(w, r, domain.ErrInvalidID(raw))
		return 0, false
	}
	return id, true
}

// ---------- categories ----------

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListCategories(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.CategoryViews(list))
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.GetCategory(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewCategoryView(c))
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if !decodeValid(w, r, &req) {
		return
	}
	c, err := h.svc.CreateCategory(r.Context(), req.ToDomain())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewCategoryView(c))
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !decodeValid(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateCategory(r.Context(), id, req.ToDomain())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewCategoryView(c))
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ---------- customers ----------

func (h *CatalogHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.CustomerViews(list))
}

func (h *CatalogHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.GetCustomer(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewCustomerView(c))
}

func (h *CatalogHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerRequest
	if !decodeValid(w, r, &req) {
		return
	}
	c, err := h.svc.CreateCustomer(r.Context(), req.ToDomain())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewCustomerView(c))
}

func (h *CatalogHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.CustomerRequest
	if !decodeValid(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateCustomer(r.Context(), id, req.ToDomain())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewCustomerView(c))
}

func (h *CatalogHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ---------- products ----------

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListProducts(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ProductViews(list))
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewProductView(p))
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if !decodeValid(w, r, &req) {
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), req.ToDomain())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewProductView(p))
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !decodeValid(w, r, &req) {
		return
	}
	p, err := h.svc.UpdateProduct(r.Context(), id, req.ToDomain())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewProductView(p))
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ---------- orders ----------

func (h *CatalogHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListOrders(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.OrderViews(list))
}

func (h *CatalogHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	o, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewOrderView(o))
}

func (h *CatalogHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.OrderRequest
	if !decodeValid(w, r, &req) {
		return
	}
	o, err := h.svc.CreateOrder(r.Context(), req.ToDomain())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewOrderView(o))
}

func (h *CatalogHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.OrderRequest
	if !decodeValid(w, r, &req) {
		return
	}
	o, err := h.svc.UpdateOrder(r.Context(), id, req.ToDomain())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewOrderView(o))
}

func (h *CatalogHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}
