package handlers

import (
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/services"
	xhttp "github.com/juninhokosta/jp-forro-2-sub000/pkg/http"
)

type ReportService interface {
	Summary(month time.Month, year int) services.PeriodTotals
	Split(month time.Month, year int) []services.PartnerBalance
}

type ReportHandler struct {
	svc ReportService
}

func NewReportHandler(reportService ReportService) *ReportHandler {
	return &ReportHandler{svc: reportService}
}

func RegisterReportRoutes(e *router.Group, h *ReportHandler, guard xhttp.MiddlewareFunc) {
	e.GET("/reports/summary", guard(h.Summary))
	e.GET("/reports/split", guard(h.Split))
}

func (h *ReportHandler) Summary(ctx *xhttp.RequestCtx) {
	month, year := periodFrom(ctx)
	writeJSON(ctx, xhttp.StatusOK, h.svc.Summary(month, year))
}

func (h *ReportHandler) Split(ctx *xhttp.RequestCtx) {
	month, year := periodFrom(ctx)
	writeJSON(ctx, xhttp.StatusOK, h.svc.Split(month, year))
}

// periodFrom reads month/year from the query, defaulting to the current
// calendar month.
func periodFrom(ctx *xhttp.RequestCtx) (time.Month, int) {
	now := time.Now()
	month := now.Month()
	year := now.Year()

	if v := query(ctx, "month"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 12 {
			month = time.Month(n)
		}
	}
	if v := query(ctx, "year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			year = n
		}
	}
	return month, year
}
