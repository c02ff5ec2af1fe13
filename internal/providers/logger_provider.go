package providers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"bmac/internal/structures"
)

// TypeEnum routes log lines into per-concern categories. With a log dir
// configured every category gets its own file, otherwise everything goes
// to one console writer on stderr.
type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeFetch
	TypeCache
	TypeGet
	TypePost
)

func (t TypeEnum) String() string {
	switch t {
	case TypeFetch:
		return "fetch"
	case TypeCache:
		return "cache"
	case TypeGet:
		return "get"
	case TypePost:
		return "post"
	default:
		return "app"
	}
}

var logTypes = []TypeEnum{TypeApp, TypeFetch, TypeCache, TypeGet, TypePost}

// GetLogTypeByRequestType maps an HTTP method to its log category.
func GetLogTypeByRequestType(method string) TypeEnum {
	if method == http.MethodPost {
		return TypePost
	}
	return TypeGet
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	files   []*os.File
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("unknown log level %q: %w", conf.Logger.Level, err)
	}
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	provider := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger, len(logTypes))}

	if conf.Logger.Dir == "" {
		console := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
			Level(level).With().Timestamp().Logger()
		for _, lt := range logTypes {
			provider.loggers[lt] = console.With().Str("type", lt.String()).Logger()
		}
		return provider, nil
	}

	for _, lt := range logTypes {
		path := filepath.Join(conf.Logger.Dir, lt.String()+".log")
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
		if err != nil {
			provider.Close()
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		provider.files = append(provider.files, file)
		provider.loggers[lt] = zerolog.New(file).
			Level(level).With().Timestamp().Str("type", lt.String()).Logger()
	}
	return provider, nil
}

func (l *LogProvider) get(t TypeEnum) zerolog.Logger {
	if logger, ok := l.loggers[t]; ok {
		return logger
	}
	return l.loggers[TypeApp]
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	logger := l.get(t)
	logger.Error().Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	logger := l.get(t)
	logger.Warn().Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	logger := l.get(t)
	logger.Debug().Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	logger := l.get(t)
	logger.Info().Msgf(format, args...)
}

func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	logger := l.get(t)
	logger.Fatal().Msgf(format, args...)
}

func (l *LogProvider) Close() {
	for _, file := range l.files {
		file.Close()
	}
	l.files = nil
}
