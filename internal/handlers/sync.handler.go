package handlers

import (
	"context"

	"github.com/fasthttp/router"
	xhttp "github.com/juninhokosta/jp-forro-2-sub000/pkg/http"
)

type SyncService interface {
	Export() (string, error)
	Import(ctx context.Context, code string) error
}

type SyncHandler struct {
	svc SyncService
}

func NewSyncHandler(syncService SyncService) *SyncHandler {
	return &SyncHandler{svc: syncService}
}

func RegisterSyncRoutes(e *router.Group, h *SyncHandler, guard xhttp.MiddlewareFunc) {
	e.GET("/sync/export", guard(h.Export))
	e.POST("/sync/import", guard(h.Import))
}

type syncCodeResponse struct {
	Code string `json:"code"`
}

type importRequest struct {
	Code string `json:"code"`
}

func (h *SyncHandler) Export(ctx *xhttp.RequestCtx) {
	code, err := h.svc.Export()
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, syncCodeResponse{Code: code})
}

func (h *SyncHandler) Import(ctx *xhttp.RequestCtx) {
	var req importRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := h.svc.Import(ctx, req.Code); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	ctx.Response.SetStatusCode(xhttp.StatusNoContent)
}
