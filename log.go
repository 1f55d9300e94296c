package main

import (
	"os"

	"github.com/btcsuite/btclog"
)

// =============================================================================
// LOGGING
// =============================================================================

// backendLog is the single backend every subsystem logger in this package
// writes through, the same split the lnd example keeps between a shared
// backend and per-subsystem loggers.
var backendLog = btclog.NewBackend(os.Stdout)

// log is this package's subsystem logger. Disabled by default; callers that
// want output call log.SetLevel(...) the way lnd's UseLogger does.
var log = backendLog.Logger("MEMP")

func init() {
	log.SetLevel(btclog.LevelInfo)
}

// SetLogLevel reapplies the subsystem log level from a config string such
// as MempoolConfig.LogLevel. An unrecognized or empty name leaves the
// current level untouched.
func SetLogLevel(name string) {
	level, ok := btclog.LevelFromString(name)
	if !ok {
		return
	}
	log.SetLevel(level)
}
