package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger 生成器诊断日志，基于 zerolog
type Logger struct {
	zlog zerolog.Logger
}

// Config 日志配置
type Config struct {
	Verbose bool      // 输出 debug 级别
	Console bool      // 控制台格式，否则为 JSON
	Output  io.Writer // 默认 os.Stderr
}

// New 创建日志实例
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}

	var zlog zerolog.Logger
	if cfg.Console {
		zlog = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly})
	} else {
		zlog = zerolog.New(out)
	}
	return &Logger{zlog: zlog.Level(level).With().Timestamp().Logger()}
}

// Nop 返回丢弃所有输出的日志实例
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// With 返回附加字段的子日志
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zlog: l.zlog.With().Str(key, value).Logger()}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.zlog.Debug().Msgf(format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.zlog.Info().Msgf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.zlog.Warn().Msgf(format, args...)
}

// Error 记录错误
func (l *Logger) Error(err error, msg string) {
	l.zlog.Error().Err(err).Msg(msg)
}

// Enabled 是否输出 debug 级别
func (l *Logger) Enabled() bool {
	return l.zlog.Debug().Enabled()
}
