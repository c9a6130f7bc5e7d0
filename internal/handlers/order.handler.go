package handlers

import (
	"context"
	"errors"

	"github.com/fasthttp/router"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/services"
	xhttp "github.com/juninhokosta/jp-forro-2-sub000/pkg/http"
)

type OrderService interface {
	Create(ctx context.Context, p model.OrderCreateRequest) (*model.ServiceOrder, error)
	Update(ctx context.Context, id string, p model.OrderPatch) (*model.ServiceOrder, bool)
	SetStatus(ctx context.Context, id string, status model.OrderStatus) (*model.ServiceOrder, error)
	Archive(ctx context.Context, id string, archived bool) (*model.ServiceOrder, error)
	Delete(ctx context.Context, id string)
	Get(id string) (*model.ServiceOrder, error)
	List(includeArchived bool) []*model.ServiceOrder
	RecordPartialCost(ctx context.Context, orderID string, p model.TransactionCreateRequest) (*model.Transaction, error)
	SettleBalance(ctx context.Context, orderID, partnerID, partnerName string) (*model.Transaction, error)
	ProfitShare(orderID string) (float64, error)
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{svc: orderService}
}

func RegisterOrderRoutes(e *router.Group, h *OrderHandler, guard xhttp.MiddlewareFunc) {
	e.POST("/orders", guard(h.Create))
	e.GET("/orders", guard(h.List))
	e.GET("/orders/{id}", guard(h.Get))
	e.PUT("/orders/{id}", guard(h.Update))
	e.DELETE("/orders/{id}", guard(h.Delete))
	e.PUT("/orders/{id}/status", guard(h.SetStatus))
	e.PUT("/orders/{id}/archive", guard(h.Archive))
	e.POST("/orders/{id}/costs", guard(h.RecordCost))
	e.POST("/orders/{id}/settle", guard(h.Settle))
	e.GET("/orders/{id}/profit", guard(h.Profit))
}

type createOrderRequest struct {
	QuoteID         string  `json:"quote_id"`
	CustomerName    string  `json:"customer_name"`
	CustomerContact string  `json:"customer_contact"`
	CustomerAddress string  `json:"customer_address"`
	Description     string  `json:"description"`
	Status          string  `json:"status"`
	ExpectedDate    string  `json:"expected_date"`
	TotalValue      float64 `json:"total_value"`
}

func (h *OrderHandler) Create(ctx *xhttp.RequestCtx) {
	var req createOrderRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	p := model.OrderCreateRequest{
		QuoteID:         req.QuoteID,
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
		CustomerAddress: req.CustomerAddress,
		Description:     req.Description,
		Status:          model.OrderStatus(req.Status),
		TotalValue:      req.TotalValue,
	}
	if req.ExpectedDate != "" {
		t, err := parseTime(req.ExpectedDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid expected_date: "+req.ExpectedDate)
			return
		}
		p.ExpectedDate = &t
	}

	created, err := h.svc.Create(ctx, p)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, created)
}

func (h *OrderHandler) List(ctx *xhttp.RequestCtx) {
	includeArchived := query(ctx, "archived") == "true"
	writeJSON(ctx, xhttp.StatusOK, h.svc.List(includeArchived))
}

func (h *OrderHandler) Get(ctx *xhttp.RequestCtx) {
	o, err := h.svc.Get(param(ctx, "id"))
	if err != nil {
		writeError(ctx, xhttp.StatusNotFound, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, o)
}

func (h *OrderHandler) Update(ctx *xhttp.RequestCtx) {
	var patch model.OrderPatch
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

func (h *OrderHandler) Delete(ctx *xhttp.RequestCtx) {
	h.svc.Delete(ctx, param(ctx, "id"))
	ctx.Response.SetStatusCode(xhttp.StatusNoContent)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) SetStatus(ctx *xhttp.RequestCtx) {
	var req setStatusRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	updated, err := h.svc.SetStatus(ctx, param(ctx, "id"), model.OrderStatus(req.Status))
	if err != nil {
		writeError(ctx, statusForOrderErr(err), err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, updated)
}

type archiveRequest struct {
	Archived bool `json:"archived"`
}

func (h *OrderHandler) Archive(ctx *xhttp.RequestCtx) {
	var req archiveRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	updated, err := h.svc.Archive(ctx, param(ctx, "id"), req.Archived)
	if err != nil {
		writeError(ctx, statusForOrderErr(err), err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, updated)
}

type recordCostRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Notes       string  `json:"notes"`
}

func (h *OrderHandler) RecordCost(ctx *xhttp.RequestCtx) {
	var req recordCostRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	session := sessionFrom(ctx)
	p := model.TransactionCreateRequest{
		Type:        model.TransactionType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		PartnerID:   session.PartnerID,
		PartnerName: session.PartnerName,
		Notes:       req.Notes,
	}

	created, err := h.svc.RecordPartialCost(ctx, param(ctx, "id"), p)
	if err != nil {
		writeError(ctx, statusForOrderErr(err), err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, created)
}

type settleResponse struct {
	Settlement *model.Transaction `json:"settlement"`
}

func (h *OrderHandler) Settle(ctx *xhttp.RequestCtx) {
	session := sessionFrom(ctx)

	settlement, err := h.svc.SettleBalance(ctx, param(ctx, "id"), session.PartnerID, session.PartnerName)
	if err != nil {
		writeError(ctx, statusForOrderErr(err), err.Error())
		return
	}
	// Settlement is null when the balance was already covered; the order is
	// PAID either way.
	writeJSON(ctx, xhttp.StatusOK, settleResponse{Settlement: settlement})
}

type profitResponse struct {
	ProfitSharePerPartner float64 `json:"profit_share_per_partner"`
}

func (h *OrderHandler) Profit(ctx *xhttp.RequestCtx) {
	share, err := h.svc.ProfitShare(param(ctx, "id"))
	if err != nil {
		writeError(ctx, statusForOrderErr(err), err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, profitResponse{ProfitSharePerPartner: share})
}

func statusForOrderErr(err error) int {
	if errors.Is(err, services.ErrOrderNotFound) {
		return xhttp.StatusNotFound
	}
	return xhttp.StatusBadRequest
}
