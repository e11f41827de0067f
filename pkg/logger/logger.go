package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Config はロガーの出力レベルと形式です。
type Config struct {
	Level  slog.Level
	Format string // "text" (tint) または "json"
}

// FromConfig は文字列の設定値から Config を作ります。未知の値は info / text になります。
func FromConfig(logLevel, logFormat string) Config {
	cfg := Config{Level: slog.LevelInfo, Format: "text"}

	switch strings.ToLower(logLevel) {
	case "debug":
		cfg.Level = slog.LevelDebug
	case "warn":
		cfg.Level = slog.LevelWarn
	case "error":
		cfg.Level = slog.LevelError
	}

	if strings.EqualFold(logFormat, "json") {
		cfg.Format = "json"
	}
	return cfg
}

// New は設定に従った slog.Logger を作ります。
// どちらの形式でも、コンテキストのリクエスト ID が自動で付与されます。
func New(w io.Writer, cfg Config) *slog.Logger {
	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: cfg.Level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.String(a.Key, a.Value.Time().Format(time.RFC3339))
				}
				return a
			},
		})
	} else {
		h = tint.NewHandler(w, &tint.Options{
			Level:      cfg.Level,
			TimeFormat: time.Kitchen,
		})
	}
	return slog.New(&contextHandler{Handler: h})
}

// Setup は標準エラー出力向けのロガーを作り、slog のデフォルトに設定します。
func Setup(logLevel, logFormat string) *slog.Logger {
	l := New(os.Stderr, FromConfig(logLevel, logFormat))
	slog.SetDefault(l)
	return l
}

// contextHandler はコンテキストに載ったリクエスト ID をレコードに追加します。
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}
