package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	xhttp "github.com/juninhokosta/jp-forro-2-sub000/pkg/http"
)

type CustomerService interface {
	Create(ctx context.Context, name, contact, address string) (*model.Customer, error)
	Update(ctx context.Context, id string, p model.CustomerPatch) (*model.Customer, bool)
	Delete(ctx context.Context, id string)
	List() []*model.Customer
}

type CustomerHandler struct {
	svc CustomerService
}

func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: customerService}
}

func RegisterCustomerRoutes(e *router.Group, h *CustomerHandler, guard xhttp.MiddlewareFunc) {
	e.POST("/customers", guard(h.Create))
	e.GET("/customers", guard(h.List))
	e.PUT("/customers/{id}", guard(h.Update))
	e.DELETE("/customers/{id}", guard(h.Delete))
}

type createCustomerRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

func (h *CustomerHandler) Create(ctx *xhttp.RequestCtx) {
	var req createCustomerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	created, err := h.svc.Create(ctx, req.Name, req.Contact, req.Address)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, created)
}

func (h *CustomerHandler) List(ctx *xhttp.RequestCtx) {
	writeJSON(ctx, xhttp.StatusOK, h.svc.List())
}

func (h *CustomerHandler) Update(ctx *xhttp.RequestCtx) {
	var patch model.CustomerPatch
	if err := readJSON(ctx, &patch); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	updated, ok := h.svc.Update(ctx, param(ctx, "id"), patch)
	if !ok {
		ctx.Response.SetStatusCode(xhttp.StatusNoContent)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, updated)
}

func (h *CustomerHandler) Delete(ctx *xhttp.RequestCtx) {
	h.svc.Delete(ctx, param(ctx, "id"))
	ctx.Response.SetStatusCode(xhttp.StatusNoContent)
}
