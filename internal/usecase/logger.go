package usecase

import "go.uber.org/zap"

type Logger interface {
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
}

func nopLogger() Logger {
	return zap.NewNop().Sugar()
}
