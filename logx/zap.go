/*
NAME
  zap.go

DESCRIPTION
  zap.go implements Logger on top of go.uber.org/zap's SugaredLogger,
  and New constructs one writing to a lumberjack-rotated file, matching
  the logging setup revid/config uses in the teacher repo.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package logx

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// zapLogger adapts a *zap.SugaredLogger to Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l *zapLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l *zapLogger) Info(msg string, kv ...interface{})  { l.s.Infow(msg, kv...) }
func (l *zapLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
func (l *zapLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }

// Config controls New's rotated file sink; a zero-valued Config writes
// to logPath with sensible defaults.
type Config struct {
	MaxSizeMB  int // default 10.
	MaxBackups int // default 5.
	MaxAgeDays int // default 30.
	Compress   bool
	Level      zapcore.Level
}

// New builds a Logger writing JSON-encoded entries to logPath, rotated
// by lumberjack, matching the reference CLI's default log sink.
func New(logPath string, cfg Config) Logger {
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 30
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), w, cfg.Level)
	return &zapLogger{s: zap.New(core).Sugar()}
}
