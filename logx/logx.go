/*
NAME
  logx.go

DESCRIPTION
  logx.go declares the structured logging facade the back-end preparer
  and defaults packages log through, plus a no-op implementation for
  callers that don't want logging (spec.md's AMBIENT STACK: structured
  logging of auto-fills and finalisation decisions).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package logx wraps go.uber.org/zap behind a small structured-logging
// interface, so that backend and defaults never import zap
// directly: they log through Logger, and callers choose the
// implementation (a zap-backed sink to a lumberjack-rotated file, or
// NoOp for tests and library embedding).
package logx

// Logger is the structured-logging interface used throughout this
// module. kv is alternating key/value pairs, mirroring zap's
// SugaredLogger convention.
type Logger interface {
	Debug(msg string, kv ...interface{})
	Info(msg string, kv ...interface{})
	Warn(msg string, kv ...interface{})
	Error(msg string, kv ...interface{})
}

type noop struct{}

func (noop) Debug(string, ...interface{}) {}
func (noop) Info(string, ...interface{})  {}
func (noop) Warn(string, ...interface{})  {}
func (noop) Error(string, ...interface{}) {}

// NoOp returns a Logger that discards every call, for callers that
// don't want logging (e.g. library embedding, tests).
func NoOp() Logger { return noop{} }
