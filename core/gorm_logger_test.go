package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Xushengqwer/codefix_portal/config"
)

func newObserved(level string) (*GormLogger, *observer.ObservedLogs) {
	zc, logs := observer.New(zap.DebugLevel)
	return NewGormLogger(WrapZap(zap.New(zc)), config.GormLogConfig{Level: level, SlowThreshold: 100}), logs
}

func sqlFn() (string, int64) { return "SELECT 1", 1 }

func TestGormLogger_Trace(t *testing.T) {
	l, logs := newObserved("warn")
	ctx := context.Background()

	l.Trace(ctx, time.Now(), sqlFn, nil)
	assert.Zero(t, logs.Len(), "warn 级别下普通 SQL 不输出")

	l.Trace(ctx, time.Now().Add(-time.Second), sqlFn, nil)
	assert.Equal(t, 1, logs.FilterMessage("慢查询").Len())

	l.Trace(ctx, time.Now(), sqlFn, gormlogger.ErrRecordNotFound)
	assert.Zero(t, logs.FilterMessage("SQL 执行失败").Len())

	l.Trace(ctx, time.Now(), sqlFn, errors.New("boom"))
	assert.Equal(t, 1, logs.FilterMessage("SQL 执行失败").Len())
}

func TestGormLogger_LevelAndLogMode(t *testing.T) {
	silent, logs := newObserved("silent")
	silent.Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))
	silent.Error(context.Background(), "err %d", 1)
	assert.Zero(t, logs.Len())

	verbose := silent.LogMode(gormlogger.Info)
	verbose.Info(context.Background(), "hello %s", "gorm")
	assert.Equal(t, 1, logs.FilterMessage("hello gorm").Len())
	assert.Equal(t, gormlogger.Silent, silent.level, "LogMode 不修改原对象")

	assert.Equal(t, gormlogger.Warn, parseGormLevel("unknown"))
	assert.Equal(t, gormlogger.Error, parseGormLevel("ERROR"))
}
