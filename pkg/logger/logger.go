// Package logger builds the structured logger shared by every internal
// subsystem.
package logger

import "go.uber.org/zap"

// New builds a production-configured, sugared zap logger scoped to the
// given service name.
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Sugar().With("service", service)
}
