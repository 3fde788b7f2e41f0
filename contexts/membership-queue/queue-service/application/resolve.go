package application

import (
	"log/slog"

	"fundqueue/contexts/membership-queue/queue-service/ports"
)

// ResolveLogger guarantees a non-nil logger for application code paths.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func ResolveObserver(observer ports.Observer) ports.Observer {
	if observer == nil {
		return noopObserver{}
	}
	return observer
}

type noopObserver struct{}

func (noopObserver) QueueRecalculated(int, int) {}
