package workspace

import "go.uber.org/zap"

var logSink = zap.NewNop().Sugar()

// SetLogger allows callers/tests to inject a custom logger instead of the
// default no-op one. Passing nil resets to the default.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		logSink = zap.NewNop().Sugar()
		return
	}
	logSink = l
}

// Logger returns the logger currently used by the package.
func Logger() *zap.SugaredLogger {
	return logSink
}
