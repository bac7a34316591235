package gorm_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"

	adapter "github.com/mineralhub/mineralhub/internal/logger/adapter/gorm"
)

func withBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	return &buf
}

func TestTrace(t *testing.T) {
	query := func() (string, int64) { return "SELECT 1", 1 }

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		err     error
		want    string
		wantOut bool
	}{
		{name: "silent", level: gormlogger.Silent, err: errors.New("boom")},
		{name: "error logged", level: gormlogger.Error, err: errors.New("boom"), want: `"level":"error"`, wantOut: true},
		{name: "not found ignored at error level", level: gormlogger.Error, err: gormlogger.ErrRecordNotFound},
		{name: "info logs query", level: gormlogger.Info, want: `"sql":"SELECT 1"`, wantOut: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := withBuffer(t)

			l := adapter.New(gormlogger.Warn, 0).LogMode(tc.level)
			l.Trace(context.Background(), time.Now(), query, tc.err)

			if !tc.wantOut {
				assert.Empty(t, buf.String())
				return
			}

			assert.Contains(t, buf.String(), tc.want)
		})
	}
}

func TestMessages(t *testing.T) {
	buf := withBuffer(t)

	l := adapter.New(gormlogger.Warn, time.Second)
	l.Info(context.Background(), "hidden %d", 1)
	l.Warn(context.Background(), "shown %d", 2)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 2")
}
