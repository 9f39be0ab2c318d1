package core

import "log"

// Logf is the diagnostic logger used by the commands. The numeric stages
// never log. It defaults to log.Printf and may
// be replaced by SetLogger.
var Logf func(format string, v ...any) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}
