package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	xhttp "github.com/juninhokosta/jp-forro-2-sub000/pkg/http"
)

type TransactionService interface {
	Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error)
	Update(ctx context.Context, id string, p model.TransactionPatch) (*model.Transaction, bool)
	Delete(ctx context.Context, id string)
	List(f model.TransactionFilter) []*model.Transaction
}

type TransactionHandler struct {
	svc TransactionService
}

func NewTransactionHandler(transactionService TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: transactionService}
}

func RegisterTransactionRoutes(e *router.Group, h *TransactionHandler, guard xhttp.MiddlewareFunc) {
	e.POST("/transactions", guard(h.Create))
	e.GET("/transactions", guard(h.List))
	e.PUT("/transactions/{id}", guard(h.Update))
	e.DELETE("/transactions/{id}", guard(h.Delete))
}

type createTransactionRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	OSID        string  `json:"os_id"`
	Notes       string  `json:"notes"`
}

func (h *TransactionHandler) Create(ctx *xhttp.RequestCtx) {
	var req createTransactionRequest
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
		OSID:        req.OSID,
		Notes:       req.Notes,
	}
	if req.Date != "" {
		t, err := parseTime(req.Date)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid date: "+req.Date)
			return
		}
		p.Date = t
	}

	created, err := h.svc.Create(ctx, p)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, created)
}

func (h *TransactionHandler) List(ctx *xhttp.RequestCtx) {
	var f model.TransactionFilter

	if v := query(ctx, "type"); v != "" {
		t := model.TransactionType(v)
		f.Type = &t
	}
	if v := query(ctx, "category"); v != "" {
		f.Category = &v
	}
	if v := query(ctx, "os_id"); v != "" {
		f.OSID = &v
	}
	if v := query(ctx, "month"); v != "" {
		if n, e := strconv.Atoi(v); e == nil && n >= 1 && n <= 12 {
			m := time.Month(n)
			f.Month = &m
		}
	}
	if v := query(ctx, "year"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Year = &n
		}
	}

	writeJSON(ctx, xhttp.StatusOK, h.svc.List(f))
}

func (h *TransactionHandler) Update(ctx *xhttp.RequestCtx) {
	var patch model.TransactionPatch
	if err := readJSON(ctx, &patch); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	updated, ok := h.svc.Update(ctx, param(ctx, "id"), patch)
	if !ok {
		// Absent ids are a no-op by contract, not an error.
		ctx.Response.SetStatusCode(xhttp.StatusNoContent)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, updated)
}

func (h *TransactionHandler) Delete(ctx *xhttp.RequestCtx) {
	h.svc.Delete(ctx, param(ctx, "id"))
	ctx.Response.SetStatusCode(xhttp.StatusNoContent)
}
