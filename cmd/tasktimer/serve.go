package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/tasktimer/internal/app"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local API and resume any in-progress session",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, zapLogger, err := setup(false)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	application, err := app.New(ctx, cfg, nil, zapLogger)
	if err != nil {
		zapLogger.Error("startup failed", zap.Error(err))
		return err
	}
	application.Listen(cancel)

	serveErr := application.Serve(ctx)
	if serveErr != nil {
		zapLogger.Error("server stopped", zap.Error(serveErr))
	}
	if err := application.Close(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
	return serveErr
}
