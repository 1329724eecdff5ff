package usecase

import "context"

// Notifier delivers best-effort user notices about session changes so use
// cases stay independent of the delivery channel.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}
