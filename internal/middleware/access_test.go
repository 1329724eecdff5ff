package middleware

import (
	"testing"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecover(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := Chain(func(*fasthttp.RequestCtx) { panic("boom") }, Recover(zap.New(core)))

	var rc fasthttp.RequestCtx
	rc.Request.SetRequestURI("/api/v1/tasks")
	h(&rc)

	if rc.Response.StatusCode() != fasthttp.StatusInternalServerError {
		t.Errorf("status = %d", rc.Response.StatusCode())
	}
	if logs.FilterMessage("handler panic").Len() != 1 {
		t.Error("expected the panic to be logged")
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := Chain(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
	}, AccessLog(zap.New(core)))

	var rc fasthttp.RequestCtx
	rc.Request.SetRequestURI("/health")
	rc.Request.Header.Set("X-Request-ID", "abc")
	h(&rc)

	entries := logs.FilterMessage("request failed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "abc" || fields["path"] != "/health" {
		t.Errorf("fields = %v", fields)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return func(ctx *fasthttp.RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}
	Chain(func(*fasthttp.RequestCtx) { order = append(order, "handler") }, mw("outer"), mw("inner"))(&fasthttp.RequestCtx{})
	want := []string{"outer", "inner", "handler"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
