// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package zaplog adapts a *zap.SugaredLogger to the mdqueue.Logger
// interface.
package zaplog

import "go.uber.org/zap"

// Logger wraps a zap.SugaredLogger.
type Logger struct {
	s *zap.SugaredLogger
}

// New wraps z. Passing nil panics, matching zap's own nil-logger behavior.
func New(z *zap.Logger) Logger {
	return Logger{s: z.Sugar()}
}

// Development returns a Logger backed by zap.NewDevelopmentConfig, suitable
// for the mdqueue-bench CLI's default logging setup.
func Development() (Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	z, err := cfg.Build()
	if err != nil {
		return Logger{}, err
	}
	return New(z), nil
}

func (l Logger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l Logger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l Logger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
