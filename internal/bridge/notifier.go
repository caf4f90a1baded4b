package bridge

import "github.com/MorpheusAIs/capital-router/internal/interfaces"

// Notifier is the fire-and-forget notification capability. Implementations
// must not block the monitor.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

// LogNotifier routes notifications to the structured log
type LogNotifier struct {
	log interfaces.ILogger
}

func NewLogNotifier(log interfaces.ILogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Success(msg string) {
	n.log.Infow(msg, "kind", "success")
}

func (n *LogNotifier) Info(msg string) {
	n.log.Infow(msg, "kind", "info")
}

func (n *LogNotifier) Error(msg string) {
	n.log.Errorw(msg, "kind", "error")
}
