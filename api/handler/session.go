package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasktimer/pkg/httpcontext"
	"github.com/fastygo/tasktimer/usecase/session"
)

type SessionHandler struct {
	baseHandler
	session *session.Controller
}

func NewSessionHandler(ctrl *session.Controller, adapter *httpcontext.Adapter, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		session:     ctrl,
	}
}

// @Summary Live stopwatch reading of the active session
// @Tags session
// @Router /api/v1/session [get]
func (h *SessionHandler) Current(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.session.Snapshot())
}
