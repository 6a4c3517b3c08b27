package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

type format uint8

const (
	formatJSON format = iota
	formatText
	formatTint
)

type config struct {
	level      slog.Level
	format     format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// ContextExtractor pulls an attribute out of a context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// Option configures New.
type Option func(*config)

// WithDevelopment logs colored, human-readable text at debug level.
func WithDevelopment(service string) Option {
	return func(c *config) {
		c.level = slog.LevelDebug
		c.format = formatTint
		c.attrs = append(c.attrs, slog.String("service", service))
	}
}

// WithProduction logs JSON at info level.
func WithProduction(service string) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		c.format = formatJSON
		c.attrs = append(c.attrs, slog.String("service", service))
	}
}

func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

func WithJSONFormatter() Option {
	return func(c *config) {
		c.format = formatJSON
	}
}

func WithTextFormatter() Option {
	return func(c *config) {
		c.format = formatText
	}
}

func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// WithContextValue logs ctx.Value(key) under name when present.
func WithContextValue(name string, key any) Option {
	return WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
		v := ctx.Value(key)
		if v == nil {
			return slog.Attr{}, false
		}
		return slog.Any(name, v), true
	})
}

func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		c.extractors = append(c.extractors, extractors...)
	}
}

// New builds a logger. Without options it writes JSON at info level to stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{level: slog.LevelInfo, output: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}

	var h slog.Handler
	switch c.format {
	case formatTint:
		h = tint.NewHandler(c.output, &tint.Options{
			Level:      c.level,
			TimeFormat: time.Kitchen,
			NoColor:    !isTerminal(c.output),
		})
	case formatText:
		h = slog.NewTextHandler(c.output, &slog.HandlerOptions{Level: c.level})
	default:
		h = slog.NewJSONHandler(c.output, &slog.HandlerOptions{Level: c.level})
	}

	if len(c.attrs) > 0 {
		h = h.WithAttrs(c.attrs)
	}
	if len(c.extractors) > 0 {
		h = &contextHandler{Handler: h, extractors: c.extractors}
	}
	return slog.New(h)
}

// NewFromConfig builds a logger from environment configuration.
func NewFromConfig(cfg Config, opts ...Option) *slog.Logger {
	base := []Option{WithProduction(cfg.Service)}
	if strings.EqualFold(cfg.Env, "development") {
		base = []Option{WithDevelopment(cfg.Service)}
	}
	if cfg.Level != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.Level)); err == nil {
			base = append(base, WithLevel(level))
		}
	}
	switch strings.ToLower(cfg.Format) {
	case "json":
		base = append(base, WithJSONFormatter())
	case "text":
		base = append(base, WithTextFormatter())
	}
	return New(append(base, opts...)...)
}

// Config reads logger settings from the environment.
type Config struct {
	Service string `env:"SERVICE_NAME" envDefault:"conduit"`
	Env     string `env:"ENV" envDefault:"production"`
	Level   string `env:"LOG_LEVEL" envDefault:""`
	Format  string `env:"LOG_FORMAT" envDefault:""`
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, extract := range h.extractors {
		if attr, ok := extract(ctx); ok {
			r.AddAttrs(attr)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}
