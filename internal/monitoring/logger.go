// Package monitoring carries the diagnostic logger for the outer layers:
// batch progress lines and the paint command's manifest and viewer
// warnings. The pixel-grid packages never log.
package monitoring

import "log"

// Logf defaults to log.Printf. Tests mute it with SetLogger(nil).
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces Logf. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
