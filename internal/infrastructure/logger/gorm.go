package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger bridges gorm's logging interface onto zap
type GormLogger struct {
	logger             *zap.Logger
	level              gormlogger.LogLevel
	slowThreshold      time.Duration
	skipRecordNotFound bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the elapsed time above which a query is logged
// as slow. Zero disables slow-query logging.
func WithSlowThreshold(d time.Duration) GormLoggerOption {
	return func(gl *GormLogger) { gl.slowThreshold = d }
}

// WithIgnoreRecordNotFoundError controls whether gorm.ErrRecordNotFound
// is logged as an error
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(gl *GormLogger) { gl.skipRecordNotFound = ignore }
}

// NewGormLogger creates a gorm logger backed by zap
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		logger:             zapLogger.Named("gorm"),
		level:              level,
		slowThreshold:      200 * time.Millisecond,
		skipRecordNotFound: true,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

// LogMode implements gormlogger.Interface
func (gl *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *gl
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (gl *GormLogger) Info(_ context.Context, msg string, data ...any) {
	if gl.level >= gormlogger.Info {
		gl.logger.Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (gl *GormLogger) Warn(_ context.Context, msg string, data ...any) {
	if gl.level >= gormlogger.Warn {
		gl.logger.Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (gl *GormLogger) Error(_ context.Context, msg string, data ...any) {
	if gl.level >= gormlogger.Error {
		gl.logger.Sugar().Errorf(msg, data...)
	}
}

// Trace logs executed SQL with elapsed time and affected rows
func (gl *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if gl.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	switch {
	case err != nil && gl.level >= gormlogger.Error:
		if gl.skipRecordNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		gl.logger.Error("SQL Error", append(fields, zap.Error(err))...)
	case gl.slowThreshold > 0 && elapsed > gl.slowThreshold && gl.level >= gormlogger.Warn:
		gl.logger.Warn("Slow SQL", append(fields, zap.Duration("threshold", gl.slowThreshold))...)
	case gl.level >= gormlogger.Info:
		gl.logger.Debug("SQL Query", fields...)
	}
}

// MapGormLogLevel translates an application log level into gorm's scale
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
