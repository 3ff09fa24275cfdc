package logging

import (
	"go.uber.org/zap"
)

// Init installs the global logger. Verbose gives a human readable
// development logger at debug level, otherwise a production logger.
func Init(verbose bool) error {
	var (
		logger *zap.Logger
		err    error
	)
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		logger, err = cfg.Build()
	}
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func Named(name string) *zap.Logger {
	return zap.L().Named(name)
}

func Sync() {
	_ = zap.L().Sync()
}
