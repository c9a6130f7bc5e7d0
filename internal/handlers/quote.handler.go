package handlers

import (
	"context"
	"errors"

	"github.com/fasthttp/router"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/services"
	xhttp "github.com/juninhokosta/jp-forro-2-sub000/pkg/http"
)

type QuoteService interface {
	Create(ctx context.Context, p model.QuoteCreateRequest) (*model.Quote, error)
	Delete(ctx context.Context, id string)
	Get(id string) (*model.Quote, error)
	List() []*model.Quote
	ConvertToOrder(ctx context.Context, quoteID string) (*model.ServiceOrder, error)
}

type QuoteHandler struct {
	svc QuoteService
}

func NewQuoteHandler(quoteService QuoteService) *QuoteHandler {
	return &QuoteHandler{svc: quoteService}
}

func RegisterQuoteRoutes(e *router.Group, h *QuoteHandler, guard xhttp.MiddlewareFunc) {
	e.POST("/quotes", guard(h.Create))
	e.GET("/quotes", guard(h.List))
	e.GET("/quotes/{id}", guard(h.Get))
	e.DELETE("/quotes/{id}", guard(h.Delete))
	e.POST("/quotes/{id}/convert", guard(h.Convert))
}

type quoteItemRequest struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type createQuoteRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerContact string             `json:"customer_contact"`
	Items           []quoteItemRequest `json:"items"`
	Observations    string             `json:"observations"`
}

func (h *QuoteHandler) Create(ctx *xhttp.RequestCtx) {
	var req createQuoteRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	items := make([]model.QuoteItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.QuoteItem{
			Name:     it.Name,
			Type:     model.CatalogType(it.Type),
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}

	created, err := h.svc.Create(ctx, model.QuoteCreateRequest{
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
		Items:           items,
		Observations:    req.Observations,
	})
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, created)
}

func (h *QuoteHandler) List(ctx *xhttp.RequestCtx) {
	writeJSON(ctx, xhttp.StatusOK, h.svc.List())
}

func (h *QuoteHandler) Get(ctx *xhttp.RequestCtx) {
	q, err := h.svc.Get(param(ctx, "id"))
	if err != nil {
		writeError(ctx, xhttp.StatusNotFound, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, q)
}

func (h *QuoteHandler) Delete(ctx *xhttp.RequestCtx) {
	h.svc.Delete(ctx, param(ctx, "id"))
	ctx.Response.SetStatusCode(xhttp.StatusNoContent)
}

func (h *QuoteHandler) Convert(ctx *xhttp.RequestCtx) {
	created, err := h.svc.ConvertToOrder(ctx, param(ctx, "id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuoteNotFound):
			writeError(ctx, xhttp.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrQuoteAlreadyConverted):
			writeError(ctx, xhttp.StatusConflict, err.Error())
		default:
			writeError(ctx, xhttp.StatusBadRequest, err.Error())
		}
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, created)
}
