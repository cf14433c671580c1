// Package logging builds the zap logger shared by the compiler, the
// indexes and the CLI.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Levels.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config selects the level, encoding and service name of the logger.
type Config struct {
	Level       string `yaml:"level" json:"level"`
	Format      string `yaml:"format" json:"format"`
	ServiceName string `yaml:"service_name" json:"service_name"`
}

// DefaultConfig logs warnings and above as console text.
func DefaultConfig() Config {
	return Config{Level: Warning, Format: FormatConsole, ServiceName: "condex"}
}

// ParseLevel maps a level name onto a zap level. The empty string is info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case Debug:
		return zap.DebugLevel, nil
	case Info, "":
		return zap.InfoLevel, nil
	case Warning, "warn":
		return zap.WarnLevel, nil
	case Error:
		return zap.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// New builds a logger writing to stderr.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	encoding := FormatJSON
	switch strings.ToLower(cfg.Format) {
	case FormatJSON, "":
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	case FormatConsole:
		encoding = FormatConsole
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	fields := map[string]interface{}{"pid": os.Getpid()}
	if cfg.ServiceName != "" {
		fields["service"] = cfg.ServiceName
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    fields,
	}
	return config.Build(zap.AddCaller())
}
