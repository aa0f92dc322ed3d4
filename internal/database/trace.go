package database

import (
	"context"

	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
)

type zapTracer struct {
	log *zap.Logger
}

func newZapTracer(l *zap.Logger) *zapTracer {
	return &zapTracer{log: l}
}

func (t *zapTracer) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	fields := make([]zap.Field, 0, len(data))
	for _, k := range []string{"sql", "args", "time", "rowCount", "commandTag"} {
		if v, ok := data[k]; ok {
			fields = append(fields, zap.Any(k, v))
		}
	}
	if err, ok := data["err"].(error); ok {
		fields = append(fields, zap.Error(err))
	}

	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		t.log.Debug(msg, fields...)
	case tracelog.LogLevelInfo:
		t.log.Info(msg, fields...)
	case tracelog.LogLevelWarn:
		t.log.Warn(msg, fields...)
	case tracelog.LogLevelError:
		t.log.Error(msg, fields...)
	}
}

func traceLevel(level string) tracelog.LogLevel {
	l, err := tracelog.LogLevelFromString(level)
	if err != nil {
		return tracelog.LogLevelWarn
	}
	return l
}
