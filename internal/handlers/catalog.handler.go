package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	xhttp "github.com/juninhokosta/jp-forro-2-sub000/pkg/http"
)

type CatalogService interface {
	Create(ctx context.Context, p model.CatalogCreateRequest) (*model.CatalogItem, error)
	Update(ctx context.Context, id string, p model.CatalogPatch) (*model.CatalogItem, bool)
	Delete(ctx context.Context, id string)
	List() []*model.CatalogItem
}

type CatalogHandler struct {
	svc CatalogService
}

func NewCatalogHandler(catalogService CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: catalogService}
}

func RegisterCatalogRoutes(e *router.Group, h *CatalogHandler, guard xhttp.MiddlewareFunc) {
	e.POST("/catalog", guard(h.Create))
	e.GET("/catalog", guard(h.List))
	e.PUT("/catalog/{id}", guard(h.Update))
	e.DELETE("/catalog/{id}", guard(h.Delete))
}

type createCatalogRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Type  string  `json:"type"`
}

func (h *CatalogHandler) Create(ctx *xhttp.RequestCtx) {
	var req createCatalogRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	created, err := h.svc.Create(ctx, model.CatalogCreateRequest{
		Name:  req.Name,
		Price: req.Price,
		Type:  model.CatalogType(req.Type),
	})
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, created)
}

func (h *CatalogHandler) List(ctx *xhttp.RequestCtx) {
	writeJSON(ctx, xhttp.StatusOK, h.svc.List())
}

func (h *CatalogHandler) Update(ctx *xhttp.RequestCtx) {
	var patch model.CatalogPatch
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

func (h *CatalogHandler) Delete(ctx *xhttp.RequestCtx) {
	h.svc.Delete(ctx, param(ctx, "id"))
	ctx.Response.SetStatusCode(xhttp.StatusNoContent)
}
