package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Settings stores config for Logger
type Settings struct {
	Path       string `yaml:"path"`
	Name       string `yaml:"name"`
	Ext        string `yaml:"ext"`
	Level      string `yaml:"level"`
	MaxSize    int    `yaml:"max-size"` // megabytes before rotation
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"` // days
}

type LogLevel int

// Output levels
const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	FATAL
)

const defaultCallerDepth = 2

var zapLevels = []zapcore.Level{
	zapcore.DebugLevel,
	zapcore.InfoLevel,
	zapcore.WarnLevel,
	zapcore.ErrorLevel,
	zapcore.FatalLevel,
}

// ILogger defines the methods that any logger should implement
type ILogger interface {
	Output(level LogLevel, callerDepth int, msg string)
}

// Logger writes leveled messages through zap
type Logger struct {
	zl    *zap.Logger
	level zap.AtomicLevel
}

var DefaultLogger ILogger = NewStderrLogger()

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

func newLogger(core zapcore.Core, level zap.AtomicLevel) *Logger {
	return &Logger{
		zl:    zap.New(core, zap.AddCaller()),
		level: level,
	}
}

// NewStderrLogger creates a logger which print msg to stderr, keeping stdout for command output
func NewStderrLogger() *Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stderr), level)
	return newLogger(core, level)
}

// NewFileLogger creates a logger which print msg to stderr and a rotated log file
func NewFileLogger(settings *Settings) (*Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if settings.Level != "" {
		if err := level.UnmarshalText([]byte(settings.Level)); err != nil {
			return nil, fmt.Errorf("unknown log level %q", settings.Level)
		}
	}
	ext := settings.Ext
	if ext == "" {
		ext = "log"
	}
	if err := os.MkdirAll(settings.Path, 0755); err != nil {
		return nil, fmt.Errorf("create log dir failed: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(settings.Path, settings.Name+"."+ext),
		MaxSize:    settings.MaxSize,
		MaxBackups: settings.MaxBackups,
		MaxAge:     settings.MaxAge,
	}
	enc := encoderConfig()
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(rotator), level),
	)
	return newLogger(core, level), nil
}

// Setup initializes DefaultLogger
func Setup(settings *Settings) error {
	logger, err := NewFileLogger(settings)
	if err != nil {
		return err
	}
	DefaultLogger = logger
	return nil
}

// SetLevel changes the minimum level written
func (logger *Logger) SetLevel(level LogLevel) {
	logger.level.SetLevel(zapLevels[level])
}

// SetLevelText changes the minimum level by name: debug, info, warn, error
func (logger *Logger) SetLevelText(text string) error {
	if err := logger.level.UnmarshalText([]byte(text)); err != nil {
		return fmt.Errorf("unknown log level %q", text)
	}
	return nil
}

// Output sends a msg to logger
func (logger *Logger) Output(level LogLevel, callerDepth int, msg string) {
	zl := logger.zl.WithOptions(zap.AddCallerSkip(callerDepth))
	if ce := zl.Check(zapLevels[level], msg); ce != nil {
		ce.Write()
	}
}

// Sync flushes buffered entries
func (logger *Logger) Sync() error {
	return logger.zl.Sync()
}

func sprintln(v ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(v...), "\n")
}

// Debug logs debug message through DefaultLogger
func Debug(v ...interface{}) {
	DefaultLogger.Output(DEBUG, defaultCallerDepth, sprintln(v...))
}

// Debugf logs debug message through DefaultLogger
func Debugf(format string, v ...interface{}) {
	DefaultLogger.Output(DEBUG, defaultCallerDepth, fmt.Sprintf(format, v...))
}

// Info logs message through DefaultLogger
func Info(v ...interface{}) {
	DefaultLogger.Output(INFO, defaultCallerDepth, sprintln(v...))
}

// Infof logs message through DefaultLogger
func Infof(format string, v ...interface{}) {
	DefaultLogger.Output(INFO, defaultCallerDepth, fmt.Sprintf(format, v...))
}

// Warn logs warning message through DefaultLogger
func Warn(v ...interface{}) {
	DefaultLogger.Output(WARNING, defaultCallerDepth, sprintln(v...))
}

// Error logs error message through DefaultLogger
func Error(v ...interface{}) {
	DefaultLogger.Output(ERROR, defaultCallerDepth, sprintln(v...))
}

// Errorf logs error message through DefaultLogger
func Errorf(format string, v ...interface{}) {
	DefaultLogger.Output(ERROR, defaultCallerDepth, fmt.Sprintf(format, v...))
}

// Fatal prints error message then stop the program
func Fatal(v ...interface{}) {
	DefaultLogger.Output(FATAL, defaultCallerDepth, sprintln(v...))
}
