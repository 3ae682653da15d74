// Package logger provides the structured, levelled logger for the bot,
// built on log/slog.
//
//	logger.Setup()
//	logger.Info("order approved", "order_id", id, "user_id", uid)
//
// In production (APP_ENV=production) records are emitted as JSON for log
// aggregators; in development as human-readable text. When MONGO_LOG_URI is
// configured, records are additionally shipped to MongoDB in the background —
// see ship.go.
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/powerpointbreak/storebot/config"
)

var L = slog.New(slog.NewTextHandler(os.Stdout, nil))

var shipper *Shipper

// Setup initialises the global logger from configuration. Call once at boot,
// after config is loadable. Safe to skip in tests: the default text logger
// is already usable.
func Setup() {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	var handler slog.Handler
	switch config.AppEnv() {
	case "production", "prod":
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	if uri := config.MongoLogURI(); uri != "" {
		s, err := NewShipper(uri, config.MongoLogDB(), "logs")
		if err != nil {
			slog.New(handler).Warn("logger: mongo shipper disabled", "error", err)
		} else {
			shipper = s
			handler = fanout{handler, s}
		}
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// Close flushes the MongoDB shipper, if one is active.
func Close() {
	if shipper != nil {
		shipper.Close()
	}
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }

// fanout duplicates every record to both handlers. The shipper never blocks,
// so the primary handler's latency is the only cost on the hot path.
type fanout [2]slog.Handler

func (f fanout) Enabled(ctx context.Context, lvl slog.Level) bool {
	return f[0].Enabled(ctx, lvl) || f[1].Enabled(ctx, lvl)
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	err := f[0].Handle(ctx, r.Clone())
	_ = f[1].Handle(ctx, r)
	return err
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return fanout{f[0].WithAttrs(attrs), f[1].WithAttrs(attrs)}
}

func (f fanout) WithGroup(name string) slog.Handler {
	return fanout{f[0].WithGroup(name), f[1].WithGroup(name)}
}
