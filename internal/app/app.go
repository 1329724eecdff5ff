package app

import (
	"context"
	"fmt"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/tasktimer/api/handler"
	"github.com/fastygo/tasktimer/internal/config"
	"github.com/fastygo/tasktimer/internal/infrastructure/monitor"
	"github.com/fastygo/tasktimer/internal/infrastructure/notify"
	"github.com/fastygo/tasktimer/internal/infrastructure/storage"
	"github.com/fastygo/tasktimer/internal/middleware"
	"github.com/fastygo/tasktimer/internal/router"
	"github.com/fastygo/tasktimer/internal/services/lifecycle"
	"github.com/fastygo/tasktimer/pkg/clock"
	"github.com/fastygo/tasktimer/pkg/httpcontext"
	"github.com/fastygo/tasktimer/usecase/report"
	"github.com/fastygo/tasktimer/usecase/session"
	taskUC "github.com/fastygo/tasktimer/usecase/task"
)

// App holds the components built once per process and passed explicitly to
// everything that needs them.
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	manager *lifecycle.Manager

	Store   *storage.Store
	Tasks   *taskUC.UseCase
	Session *session.Controller
	Reports *report.UseCase
	Monitor *monitor.Monitor
}

// New opens the task store and builds the use cases on top of it.
func New(ctx context.Context, cfg *config.Config, clk clock.Clock, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.System
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, logger)

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open task store: %w", err)
	}
	manager.Register("store:"+store.Driver, func(context.Context) error {
		return store.Close()
	})

	notifier, err := notify.New(cfg.Notify, logger)
	if err != nil {
		_ = manager.Shutdown(ctx)
		return nil, err
	}

	tasks := taskUC.New(store.Tasks, clk, logger.Named("tasks"))
	sessionLogger := logger.Named("session")
	ctrl := session.New(tasks, clk, notifier, sessionLogger, session.Config{
		TickInterval: cfg.Session.TickInterval,
		Location:     loc,
		OnTick: func(s session.Snapshot) {
			sessionLogger.Debug("tick", zap.String("task_id", s.TaskID), zap.String("clock", s.ClockTime))
		},
	})
	manager.Register("session", ctrl.Close)

	mon := monitor.New(store.Tasks, ctrl, monitor.Options{
		Driver:   store.Driver,
		Durable:  store.Durable,
		Interval: cfg.Monitor.Interval,
		Clock:    clk,
	}, logger.Named("monitor"))

	return &App{
		cfg:     cfg,
		logger:  logger,
		manager: manager,
		Store:   store,
		Tasks:   tasks,
		Session: ctrl,
		Reports: report.New(tasks, clk, loc, logger.Named("report")),
		Monitor: mon,
	}, nil
}

// Handler builds the HTTP handler for the local API.
func (a *App) Handler(ctx context.Context) fasthttp.RequestHandler {
	adapter := httpcontext.NewAdapter(ctx, a.cfg.Context.RequestTimeout)
	r := router.New(router.Handlers{
		Task:    apiHandler.NewTaskHandler(a.Tasks, a.Session, adapter, a.logger),
		Session: apiHandler.NewSessionHandler(a.Session, adapter, a.logger),
		Report:  apiHandler.NewReportHandler(a.Reports, adapter, a.logger),
		Health:  apiHandler.NewHealthHandler(a.Monitor, adapter, a.logger),
	})
	return middleware.Chain(r.Handler,
		middleware.Recover(a.logger),
		middleware.AccessLog(a.logger.Named("http")),
	)
}

// Serve resumes a session left in progress, then serves the local API until
// ctx is cancelled or the listener fails.
func (a *App) Serve(ctx context.Context) error {
	if a.cfg.Session.AutoResume {
		if view, err := a.Session.Resume(ctx); err != nil {
			a.logger.Warn("session not resumed", zap.Error(err))
		} else if view != nil {
			a.logger.Info("session resumed", zap.String("task_id", view.ID), zap.String("elapsed", view.ElapsedTime))
		}
	}

	a.Monitor.Start()
	a.manager.Register("monitor", a.Monitor.Stop)

	server := &fasthttp.Server{
		Handler:      a.Handler(ctx),
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		IdleTimeout:  a.cfg.HTTP.IdleTimeout,
		Name:         a.cfg.AppName,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server started", zap.String("address", a.cfg.Address()), zap.String("store", a.Store.Driver))
		errCh <- server.ListenAndServe(a.cfg.Address())
	}()
	a.manager.Register("http_server", server.ShutdownWithContext)

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}

// Close stops every component in reverse start order.
func (a *App) Close(ctx context.Context) error {
	return a.manager.Shutdown(ctx)
}

// Listen cancels on SIGINT or SIGTERM.
func (a *App) Listen(cancel context.CancelFunc) {
	a.manager.Listen(cancel)
}
