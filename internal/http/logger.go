package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewZapLogFormatter(logger *zap.Logger) *ZapLogFormatter {
	return &ZapLogFormatter{
		logger: logger,
	}
}

type ZapLogFormatter struct{ logger *zap.Logger }

func (f ZapLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return logEntry{
		logger: f.logger.With(
			zap.String("requestID", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		),
	}
}

type logEntry struct{ logger *zap.Logger }

func (e logEntry) Write(
	status, bytes int,
	_ http.Header,
	elapsed time.Duration,
	_ interface{},
) {
	var level func(string, ...zap.Field)
	switch {
	case status < http.StatusBadRequest:
		level = e.logger.Debug
	case status < http.StatusInternalServerError:
		level = e.logger.Info
	default:
		level = e.logger.Error
	}

	level(
		"[HTTP Request]",
		zap.Int("status", status),
		zap.Int("bytes", bytes),
		zap.Duration("elapsed", elapsed),
	)
}

func (e logEntry) Panic(v interface{}, stack []byte) {
	e.logger.Error(
		"[HTTP Panic]",
		zap.Any("v", v),
		zap.ByteString("stack", stack),
	)
}
