package log

import (
	"github.com/kiltia/analyst/config"

	"go.uber.org/zap"
)

// Init builds the application logger from the configuration and installs it
// as the global zap logger, so the rest of the code can use zap.S().
func Init(cfg config.LogConfig) (*zap.Logger, error) {
	conf := zap.NewDevelopmentConfig()
	conf.Level = zap.NewAtomicLevelAt(cfg.Level)
	if cfg.Encoding != "" {
		conf.Encoding = cfg.Encoding
	}
	if cfg.Output != "" {
		conf.OutputPaths = []string{cfg.Output}
	}
	logger, err := conf.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
