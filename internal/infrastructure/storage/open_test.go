package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/fastygo/tasktimer/domain"
	"github.com/fastygo/tasktimer/internal/config"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	return &config.Config{
		Store: config.StoreConfig{
			Driver:     driver,
			BoltPath:   filepath.Join(t.TempDir(), "data", "tasks.db"),
			BoltBucket: "tasks",
		},
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name        string
		driver      string
		wantDriver  string
		wantDurable bool
	}{
		{name: "memory", driver: config.DriverMemory, wantDriver: config.DriverMemory},
		{name: "bolt", driver: config.DriverBolt, wantDriver: config.DriverBolt, wantDurable: true},
		{name: "auto picks bolt", driver: config.DriverAuto, wantDriver: config.DriverBolt, wantDurable: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(context.Background(), testConfig(t, tt.driver), nil)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer store.Close()

			if store.Driver != tt.wantDriver || store.Durable != tt.wantDurable {
				t.Errorf("store = %s durable=%v, want %s durable=%v", store.Driver, store.Durable, tt.wantDriver, tt.wantDurable)
			}
			if _, err := store.Tasks.Add(context.Background(), &domain.Task{ID: "t1", Name: "x"}); err != nil {
				t.Errorf("Add() error = %v", err)
			}
		})
	}
}

func TestOpen_AutoFallsBackToMemory(t *testing.T) {
	cfg := testConfig(t, config.DriverAuto)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.Store.BoltPath = filepath.Join(blocker, "tasks.db")

	store, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()
	if store.Driver != config.DriverMemory || store.Durable {
		t.Errorf("store = %s durable=%v, want memory", store.Driver, store.Durable)
	}
}

func TestOpen_BoltFailsLoudly(t *testing.T) {
	cfg := testConfig(t, config.DriverBolt)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.Store.BoltPath = filepath.Join(blocker, "tasks.db")

	if _, err := Open(context.Background(), cfg, nil); err == nil {
		t.Error("explicit bolt driver must not fall back")
	}
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, config.DriverRedis)
	cfg.Redis = config.RedisConfig{URL: "redis://" + mr.Addr(), Prefix: "test:"}

	store, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()
	if err := store.Tasks.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if _, err := store.Tasks.Add(context.Background(), &domain.Task{ID: "t1", Name: "x"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !mr.Exists("test:task:t1") {
		t.Error("expected task key in redis")
	}
}
