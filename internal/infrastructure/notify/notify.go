package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/tasktimer/internal/config"
	"github.com/fastygo/tasktimer/usecase"
)

// New selects the notifier configured by cfg.Driver.
func New(cfg config.NotifyConfig, logger *zap.Logger) (usecase.Notifier, error) {
	switch cfg.Driver {
	case config.NotifyLog, "":
		return NewLog(logger), nil
	case config.NotifyEmail:
		if cfg.To == "" {
			return nil, fmt.Errorf("email notifier: no recipient")
		}
		return NewEmail(cfg.SMTP, cfg.To), nil
	case config.NotifyNone:
		return Noop{}, nil
	}
	return nil, fmt.Errorf("unknown notify driver %q", cfg.Driver)
}

// Log writes notices to the application log.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger.Named("notify")}
}

func (n *Log) Notify(ctx context.Context, title, body string) error {
	n.logger.Info(title, zap.String("body", body))
	return nil
}

// Noop drops every notice.
type Noop struct{}

func (Noop) Notify(context.Context, string, string) error { return nil }
