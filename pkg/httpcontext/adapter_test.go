package httpcontext

import (
	"context"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
)

func TestAdapter_Attach(t *testing.T) {
	base, cancelBase := context.WithCancel(context.Background())
	a := NewAdapter(base, time.Minute)

	var rc fasthttp.RequestCtx
	rc.Request.Header.Set(HeaderRequestID, "req-42")
	rc.Request.Header.SetUserAgent("curl/8")
	rc.SetUserValue("id", "task-1")

	ctx, cancel := a.Attach(&rc)
	defer cancel()

	if got := string(rc.Response.Header.Peek(HeaderRequestID)); got != "req-42" {
		t.Errorf("response request id = %q", got)
	}
	if ua, _ := ctx.Value(KeyUserAgent).(string); ua != "curl/8" {
		t.Errorf("user agent = %q", ua)
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Error("expected a deadline")
	}

	cancelBase()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Error("request context should follow base cancellation")
	}
}

func TestRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	first := RequestID(&rc)
	if first == "" {
		t.Fatal("expected a generated id")
	}
	if again := RequestID(&rc); again != first {
		t.Errorf("RequestID() = %q then %q, want stable", first, again)
	}
}
