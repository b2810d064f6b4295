package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zlog is the shared application logger. InitLogger must be called once at
// startup; until then Zlog is a no-op logger so packages can log safely in tests.
var Zlog = zap.NewNop()

// InitLogger builds the global logger. Development environments get the
// human-readable console encoder, everything else gets production JSON.
func InitLogger(environment, level string) error {
	var cfg zap.Config
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	Zlog = logger
	return nil
}
