// SPDX-License-Identifier: Apache-2.0

package log

import "maps"

// Logger is the structured logger used across indexschema. Components accept
// one through a WithLogger option and default to a NoopLogger.
type Logger interface {
	Trace(msg string, fields ...Fields)
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(err error, msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

type Fields map[string]any

// ModuleField names the component that emitted the log line.
const ModuleField = "module"

type NoopLogger struct{}

func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Trace(string, ...Fields)        {}
func (l *NoopLogger) Debug(string, ...Fields)        {}
func (l *NoopLogger) Info(string, ...Fields)         {}
func (l *NoopLogger) Warn(error, string, ...Fields)  {}
func (l *NoopLogger) Error(error, string, ...Fields) {}
func (l *NoopLogger) WithFields(Fields) Logger       { return l }

// NewModuleLogger returns the logger on input (or a noop logger if nil) with
// the module field set.
func NewModuleLogger(l Logger, module string) Logger {
	if l == nil {
		return NewNoopLogger()
	}
	return l.WithFields(Fields{ModuleField: module})
}

// MergeFields returns a new map with the fields of both inputs. Keys in
// overrides take precedence.
func MergeFields(base, overrides Fields) Fields {
	merged := make(Fields, len(base)+len(overrides))
	maps.Copy(merged, base)
	maps.Copy(merged, overrides)
	return merged
}
