// Package obslog constructs the module's single structured logger,
// following the usual zap.SugaredLogger injection pattern: one logger
// built at process start, passed down explicitly, never a package-level
// global.
package obslog

import "go.uber.org/zap"

// New builds a *zap.SugaredLogger: development-mode console encoding when
// debug is set (human-readable, full caller info), production JSON
// encoding otherwise. Debug-level fields such as the resolved back-end
// preference are only emitted when debug is true.
func New(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
