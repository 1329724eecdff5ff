package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasktimer/api/transport"
	"github.com/fastygo/tasktimer/internal/infrastructure/monitor"
	"github.com/fastygo/tasktimer/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"store": map[string]interface{}{
			"driver":     status.Store,
			"online":     status.StoreOK,
			"durable":    status.Durable,
			"latency_ms": status.StoreLatency.Milliseconds(),
			"failures":   status.ConsecutiveFailures,
			"last_check": status.LastCheck,
		},
		"session": map[string]interface{}{
			"active_task": status.ActiveTask,
		},
	}

	if status.StoreOK {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "task store unreachable", payload))
}
