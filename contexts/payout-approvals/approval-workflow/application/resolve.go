package application

import (
	"log/slog"

	"fundqueue/contexts/payout-approvals/approval-workflow/ports"
)

// ResolveLogger guarantees a non-nil logger for application/worker code paths.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// ResolveObserver falls back to an observer that records nothing.
func ResolveObserver(observer ports.Observer) ports.Observer {
	if observer == nil {
		return noopObserver{}
	}
	return observer
}

type noopObserver struct{}

func (noopObserver) WorkflowTransitioned(string) {}
func (noopObserver) OutboxDelivery(string, bool) {}
