// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package mdqueue

// Logger is the diagnostic sink an MDList writes rare, structurally
// interesting events to: completed purge cycles (Infof) and purge attempts
// skipped because one is already running (Debugf).
// It is never on the hot path for Insert/DeleteMin. See the zaplog
// subpackage for a go.uber.org/zap-backed implementation.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// noopLogger is the default when no [Logger] is supplied via [WithLogger].
type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}
