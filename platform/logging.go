// Package-level logging configuration.
//
// A single package-wide default keeps the configuration surface small; the
// logger is an infrastructure cross-cutting concern shared by all Platform
// instances unless overridden per instance via WithLogger.

package platform

import (
	"sync"

	"github.com/joeycumines/logiface"
)

var globalLogger struct {
	sync.RWMutex
	logger *logiface.Logger[logiface.Event]
}

// SetLogger sets the package-level default logger used by Platform instances
// that were not configured with [WithLogger]. A nil logger disables logging,
// which is the initial state.
func SetLogger(logger *logiface.Logger[logiface.Event]) {
	globalLogger.Lock()
	defer globalLogger.Unlock()
	globalLogger.logger = logger
}

// getGlobalLogger safely retrieves the package-level logger. May return nil;
// logiface treats a nil logger as disabled, so call sites chain without
// nil checks.
func getGlobalLogger() *logiface.Logger[logiface.Event] {
	globalLogger.RLock()
	defer globalLogger.RUnlock()
	return globalLogger.logger
}
