package handlers

import (
	"io"

	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

var buildVersion = "dev"

// SetVersion sets the version reported in the User-Agent header.
func SetVersion(v string) {
	buildVersion = v
}

// NewLogger returns a zap-backed logr.Logger writing to out. The console
// encoder is used unless jsonOutput is set; debug enables V(1) messages.
func NewLogger(out io.Writer, jsonOutput, debug bool) logr.Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	opts := zap.Options{
		Development:     !jsonOutput,
		DestWriter:      out,
		Level:           level,
		StacktraceLevel: zapcore.PanicLevel,
	}
	return zap.New(zap.UseFlagOptions(&opts))
}
