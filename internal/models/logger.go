package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// gormLogger routes gorm's log output through zerolog.
//
// Verbosity follows zerolog's level, so LogMode is a no-op.
type gormLogger struct {
	log zerolog.Logger
}

func (g *gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return g
}

func (g *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	g.log.Info().Msgf(msg, args...)
}

func (g *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	g.log.Warn().Msgf(msg, args...)
}

func (g *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	g.log.Error().Msgf(msg, args...)
}

// Trace logs every statement with its duration. Empty query results are part
// of normal operation and stay at debug level.
func (g *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, rows := fc()

	event := g.log.Debug()
	if err != nil && !errors.Is(err, ErrResourceNotFound) {
		event = g.log.Error().Err(err)
	}

	event.
		Str("sql", sql).
		Int64("rows", rows).
		Dur("duration", time.Since(begin)).
		Msg("database statement")
}
