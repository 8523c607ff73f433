// README: Fire-and-forget notification collaborator.
package notify

import (
	"log/slog"

	"ridehub/internal/types"
)

// Notifier delivers a short message to a user. Implementations must not
// block the caller; the core never waits on delivery succeeding.
type Notifier interface {
	Notify(userID types.ID, message string)
}

// LogNotifier writes notifications to the structured log. Stands in for a
// push gateway in local and test runs.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(userID types.ID, message string) {
	n.logger.Info("notify", "user_id", userID, "message", message)
}

// Noop discards notifications; used by tests that only assert state.
type Noop struct{}

func (Noop) Notify(types.ID, string) {}
