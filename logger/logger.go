package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log discards everything until InitLogger runs.
	Log       = zap.NewNop().Sugar()
	ZapLogger *zap.Logger // Expose the raw zap Logger
)

// InitLogger sends INFO and above to curse-modpack.log in the XDG state
// directory and returns the file path.
func InitLogger() (string, error) {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:          "T",
		LevelKey:         "L",
		NameKey:          "N",
		CallerKey:        "",
		FunctionKey:      zapcore.OmitKey,
		MessageKey:       "M",
		StacktraceKey:    "S",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration:   zapcore.SecondsDurationEncoder,
		ConsoleSeparator: "  ",
	}

	path, err := xdg.StateFile(filepath.Join("curse-modpack", "curse-modpack.log"))
	if err != nil {
		return "", fmt.Errorf("can't locate log file: %w", err)
	}
	logFile, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("can't open log file: %w", err)
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(logFile),
		zap.InfoLevel,
	)

	ZapLogger = zap.New(core)
	Log = ZapLogger.Sugar()
	Log.Infow("Logger initialized", "path", path)
	return path, nil
}

func Sync() {
	if ZapLogger != nil {
		_ = ZapLogger.Sync()
	}
}
