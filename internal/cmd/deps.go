package cmd

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/salmonumbrella/codetree/internal/state"
)

var (
	envGet         = os.Getenv
	isTerminalFunc = isTerminal
	newLoggerFunc  = newLogger
	openStateStore = state.Open
)

// newLogger returns a development logger on w when enabled, otherwise a no-op.
func newLogger(enabled bool, w io.Writer) (*zap.Logger, error) {
	if !enabled {
		return zap.NewNop(), nil
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core, zap.Development()), nil
}
