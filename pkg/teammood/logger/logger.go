package logger

import (
	"go.uber.org/zap"
)

// L is the process-wide logger. Init must run before first use; tests and
// library callers get a usable no-op-ish default so they never nil-panic.
var L *zap.Logger = zap.NewNop()

// Init configures the global logger. Pass debug=true for development output.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	L = l
	return nil
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = L.Sync()
}
