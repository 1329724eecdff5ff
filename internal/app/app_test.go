package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/tasktimer/internal/config"
	"github.com/fastygo/tasktimer/pkg/clock"
	taskUC "github.com/fastygo/tasktimer/usecase/task"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppName: "tasktimer-test",
		Store: config.StoreConfig{
			Driver:     config.DriverBolt,
			BoltPath:   filepath.Join(t.TempDir(), "tasks.db"),
			BoltBucket: "tasks",
		},
		Session: config.SessionConfig{TickInterval: time.Hour, Timezone: "UTC", AutoResume: true},
		Notify:  config.NotifyConfig{Driver: config.NotifyNone},
		Context: config.ContextConfig{RequestTimeout: time.Second, ShutdownTimeout: time.Second},
	}
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	cfg := testConfig(t)
	clk := clock.NewManual(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := New(ctx, cfg, clk, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	v, err := first.Tasks.Add(ctx, taskUC.AddTaskInput{Name: "n", Description: "d", DailyTime: 1})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := first.Session.Start(ctx, v.ID); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	clk.Advance(30 * time.Second)
	if err := first.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// the process went away at 09:00:30 with the task still in progress
	clk.Advance(10 * time.Second)
	second, err := New(ctx, cfg, clk, nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close(ctx)

	view, err := second.Session.Resume(ctx)
	if err != nil || view == nil {
		t.Fatalf("Resume() = %v, %v", view, err)
	}
	if snap := second.Session.Snapshot(); snap.ElapsedTime != 40_000 {
		t.Errorf("resumed elapsed = %d, want 40000", snap.ElapsedTime)
	}
}

func TestApp_Handler(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close(context.Background())
	a.Monitor.Refresh(context.Background())

	var rc fasthttp.RequestCtx
	rc.Request.Header.SetMethod("GET")
	rc.Request.SetRequestURI("/health")
	a.Handler(context.Background())(&rc)

	if rc.Response.StatusCode() != fasthttp.StatusOK {
		t.Errorf("health status = %d body = %s", rc.Response.StatusCode(), rc.Response.Body())
	}
	if len(rc.Response.Header.Peek("X-Request-ID")) == 0 {
		t.Error("expected X-Request-ID on response")
	}
}
