// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup installs and returns the default logger for the environment.
func Setup() *slog.Logger {
	logger := New(os.Stdout, Options{
		Level:      os.Getenv("LOG_LEVEL"),
		Format:     os.Getenv("LOG_FORMAT"),
		AddSource:  os.Getenv("LOG_SOURCE") == "true",
		Production: isProduction(),
	})
	slog.SetDefault(logger)
	return logger
}

type Options struct {
	Level      string
	Format     string
	AddSource  bool
	Production bool
}

// New builds a logger writing to w. Empty options pick production-aware
// defaults: JSON at INFO in production, text at DEBUG otherwise.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(opts.Level, opts.Production),
		AddSource: opts.AddSource,
	}

	format := strings.ToLower(opts.Format)
	if format == "" {
		format = "text"
		if opts.Production {
			format = "json"
		}
	}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	case "pretty":
		handlerOpts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("time", a.Value.Time().Format("15:04:05.000"))
			}
			return a
		}
		return slog.New(slog.NewTextHandler(w, handlerOpts))
	default:
		return slog.New(slog.NewTextHandler(w, handlerOpts))
	}
}

func parseLevel(level string, production bool) slog.Level {
	if level == "" {
		if production {
			return slog.LevelInfo
		}
		return slog.LevelDebug
	}

	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EnvironmentName returns the detected runtime environment.
func EnvironmentName() string {
	for _, key := range []string{"ENV", "GO_ENV", "ENVIRONMENT", "APP_ENV"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return "kubernetes"
	}
	return "development"
}

func isProduction() bool {
	env := strings.ToLower(EnvironmentName())
	return strings.HasPrefix(env, "prod") || os.Getenv("KUBERNETES_SERVICE_HOST") != ""
}
