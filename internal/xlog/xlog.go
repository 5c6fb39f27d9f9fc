// Package xlog supplies the Logf convention used across this module: every
// long-lived component takes an injectable `func(format string, v
// ...interface{})` and falls back to the standard logger when none is given.
// This mirrors the teacher's engine/graph.State.Logf field: no structured
// logging library is introduced, because the source material never reaches
// for one either.
package xlog

import "log"

// Logf is the logging function signature accepted throughout this module.
type Logf func(format string, v ...interface{})

// Default returns fn if non-nil, or a Logf backed by the standard logger
// prefixed with name.
func Default(fn Logf, name string) Logf {
	if fn != nil {
		return fn
	}
	return func(format string, v ...interface{}) {
		log.Printf(name+": "+format, v...)
	}
}
