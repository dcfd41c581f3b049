package logger

import (
	"go.uber.org/zap"
)

// New builds the service logger for the given environment. Development gets
// console-friendly output plus an app.log file; everything else gets the
// production JSON encoder.
func New(environment string) *zap.Logger {
	if environment == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = append(cfg.OutputPaths, "app.log")
		if l, err := cfg.Build(); err == nil {
			return l
		}
		return zap.Must(zap.NewDevelopment())
	}
	return zap.Must(zap.NewProduction())
}
