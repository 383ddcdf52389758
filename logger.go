// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// logger.go — Logger interface, the noop default, and a zerolog adapter
// for routing typedis logs into an application's zerolog pipeline.

package typedis

import "github.com/rs/zerolog"

// Logger is the logging interface used internally by typedis.
// Implement this to route logs to zap, slog, logrus, etc.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	Debug(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Info(_ string, _ ...any)  {}
func (noopLogger) Warn(_ string, _ ...any)  {}
func (noopLogger) Error(_ string, _ ...any) {}
func (noopLogger) Debug(_ string, _ ...any) {}

// ZerologLogger adapts a zerolog.Logger to Logger. Key/value pairs become
// event fields; a trailing key without a value is logged under "extra".
func ZerologLogger(l zerolog.Logger) Logger {
	return zerologLogger{l: l}
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z zerologLogger) Info(msg string, kv ...any)  { emit(z.l.Info(), msg, kv) }
func (z zerologLogger) Warn(msg string, kv ...any)  { emit(z.l.Warn(), msg, kv) }
func (z zerologLogger) Error(msg string, kv ...any) { emit(z.l.Error(), msg, kv) }
func (z zerologLogger) Debug(msg string, kv ...any) { emit(z.l.Debug(), msg, kv) }

func emit(ev *zerolog.Event, msg string, kv []any) {
	if ev == nil {
		return
	}
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			ev = ev.Interface("extra", kv[i])
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			ev = ev.Interface("extra", kv[i])
			key = "value"
		}
		if err, isErr := kv[i+1].(error); isErr {
			ev = ev.AnErr(key, err)
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}
