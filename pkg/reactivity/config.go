package reactivity

import (
	"log/slog"

	"github.com/vango-dev/reactivity/internal/errors"
)

// DevMode enables development-time diagnostics.
// When true:
//   - misuse (wrapping a non-object, writing through a readonly proxy,
//     writing a getter-only computed) is logged as a warning
//   - OnTrack and OnTrigger debug hooks are invoked
//
// When false (production) the same operations fall back silently to their
// defined behaviour and debug hooks are never called.
//
// Set this at application startup:
//
//	func main() {
//	    reactivity.DevMode = os.Getenv("REACTIVITY_DEV") == "1"
//	}
var DevMode = false

var logger = slog.Default().With("component", "reactivity")

// SetLogger replaces the logger used for development warnings.
// Passing nil restores the default logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default().With("component", "reactivity")
	}
	logger = l
}

// Logger returns the logger used for development warnings.
func Logger() *slog.Logger {
	return logger
}

// warn logs a coded development warning. It is a no-op outside DevMode.
func warn(code string, attrs ...any) {
	if !DevMode {
		return
	}
	diag := errors.New(code).WithCaller(2)
	args := append([]any{"code", diag.Code, "detail", diag.Detail}, attrs...)
	if diag.Location != nil {
		args = append(args, "at", diag.Location.String())
	}
	logger.Warn(diag.Message, args...)
}
