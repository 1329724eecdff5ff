package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasktimer/pkg/httpcontext"
	"github.com/fastygo/tasktimer/usecase/report"
)

type ReportHandler struct {
	baseHandler
	uc *report.UseCase
}

func NewReportHandler(uc *report.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Per-day time report
// @Tags reports
// @Param format query string false "json, yaml or pdf"
// @Router /api/v1/reports/daily [get]
func (h *ReportHandler) Daily(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	format, err := report.ParseFormat(string(ctx.QueryArgs().Peek("format")))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	r, err := h.uc.Daily(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	if format == report.FormatJSON {
		h.respondSuccess(ctx, http.StatusOK, r)
		return
	}

	var buf bytes.Buffer
	if err := report.Encode(&buf, r, format); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	ctx.Response.Header.SetContentType(format.ContentType())
	if format == report.FormatPDF {
		ctx.Response.Header.Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="tasktimer-%s.pdf"`, r.GeneratedAt.Format("2006-01-02")))
	}
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(buf.Bytes())
}
