package view

import "github.com/sirupsen/logrus"

// Notifier surfaces transient messages to the person using the UI.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier prints notifications through a logger.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) Success(msg string) {
	n.Logger.WithField("kind", "success").Info(msg)
}

func (n LogNotifier) Error(msg string) {
	n.Logger.WithField("kind", "error").Error(msg)
}
