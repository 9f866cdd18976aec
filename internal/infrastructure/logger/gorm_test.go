package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func selectQuery() (string, int64) {
	return "SELECT * FROM customs_declarations WHERE tenant_id = ?", 3
}

func TestNewGormLogger_Defaults(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)

	assert.Equal(t, gormlogger.Info, gl.level)
	assert.Equal(t, 200*time.Millisecond, gl.slowThreshold)
	assert.True(t, gl.skipRecordNotFound)
}

func TestNewGormLogger_Options(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Warn,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.False(t, gl.skipRecordNotFound)
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)

	clone := gl.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gl.level)
	cloned, ok := clone.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, cloned.level)
}

func TestGormLogger_LeveledMessages(t *testing.T) {
	tests := []struct {
		name  string
		level gormlogger.LogLevel
		emit  func(gl *GormLogger)
		want  int
	}{
		{
			name:  "info emitted at info level",
			level: gormlogger.Info,
			emit:  func(gl *GormLogger) { gl.Info(context.Background(), "migrating %s", "stock_items") },
			want:  1,
		},
		{
			name:  "info suppressed at silent level",
			level: gormlogger.Silent,
			emit:  func(gl *GormLogger) { gl.Info(context.Background(), "migrating") },
			want:  0,
		},
		{
			name:  "warn emitted at warn level",
			level: gormlogger.Warn,
			emit:  func(gl *GormLogger) { gl.Warn(context.Background(), "retrying %d", 2) },
			want:  1,
		},
		{
			name:  "error emitted at error level",
			level: gormlogger.Error,
			emit:  func(gl *GormLogger) { gl.Error(context.Background(), "connection lost") },
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, recorded := newObservedGormLogger(tt.level)
			tt.emit(gl)
			assert.Len(t, recorded.All(), tt.want)
		})
	}
}

func TestGormLogger_Trace_Error(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), selectQuery, errors.New("relation does not exist"))

	entries := recorded.FilterMessage("SQL Error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestGormLogger_Trace_RecordNotFoundIgnored(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), selectQuery, gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_SlowQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))

	gl.Trace(context.Background(), time.Now().Add(-time.Second), selectQuery, nil)

	entries := recorded.FilterMessage("Slow SQL").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestGormLogger_Trace_NormalQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), selectQuery, nil)

	entries := recorded.FilterMessage("SQL Query").All()
	require.Len(t, entries, 1)
}

func TestGormLogger_Trace_Silent(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), selectQuery, nil)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_CarriesRequestID(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
	gl.Trace(ctx, time.Now(), selectQuery, nil)

	entries := recorded.FilterMessage("SQL Query").All()
	require.Len(t, entries, 1)

	found := false
	for _, field := range entries[0].Context {
		if field.Key == "request_id" {
			found = true
			assert.Equal(t, "req-42", field.String)
		}
	}
	assert.True(t, found, "request_id should be attached to the trace")
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"bogus", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.input))
		})
	}
}
