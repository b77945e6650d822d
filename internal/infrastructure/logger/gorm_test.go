package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func sqlFn() (string, int64) { return "SELECT 1", 1 }

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Info, WithSlowThreshold(10*time.Millisecond))
	ctx := WithRequestID(context.Background(), "req-1")

	l.Trace(ctx, time.Now(), sqlFn, nil)
	l.Trace(ctx, time.Now().Add(-time.Second), sqlFn, nil)
	l.Trace(ctx, time.Now(), sqlFn, errors.New("syntax"))
	l.Trace(ctx, time.Now(), sqlFn, gormlogger.ErrRecordNotFound)

	entries := recorded.All()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, "sql", entries[0].Message)
		assert.Equal(t, "slow sql", entries[1].Message)
		assert.Equal(t, "sql error", entries[2].Message)
		assert.Equal(t, "req-1", entries[2].ContextMap()["request_id"])
	}
}

func TestGormLogger_Silent(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Info).LogMode(gormlogger.Silent)

	l.Trace(context.Background(), time.Now(), sqlFn, errors.New("ignored"))
	l.Error(context.Background(), "ignored")
	assert.Zero(t, recorded.Len())
}

func TestGormLogger_NotFoundLogged(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Warn, WithIgnoreRecordNotFoundError(false))

	l.Trace(context.Background(), time.Now(), sqlFn, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 1, recorded.Len())
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel("anything"))
}
