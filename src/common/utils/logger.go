package utils

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sharedLogger *zap.SugaredLogger

// InitLogger builds the shared logger. Output goes to stderr so that formatted
// timetables can be streamed on stdout.
func InitLogger(lvl string) {
	if sharedLogger != nil {
		return
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		MessageKey:     "M",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.0000"),
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		ParseLevel(lvl),
	)

	logger := zap.New(core, zap.AddCallerSkip(1))
	sharedLogger = logger.Sugar()
}

// ParseLevel falls back to info for blank or unknown levels.
func ParseLevel(lvl string) zapcore.Level {
	if lvl == "" {
		lvl = os.Getenv("LOG_LEVEL")
	}
	if parsedLevel, err := zapcore.ParseLevel(lvl); err == nil {
		return parsedLevel
	}
	return zapcore.InfoLevel
}

func GetLogger() *zap.SugaredLogger {
	if sharedLogger == nil {
		InitLogger("")
	}
	return sharedLogger
}

func SyncLogger() {
	if sharedLogger != nil {
		_ = sharedLogger.Sync()
	}
}
