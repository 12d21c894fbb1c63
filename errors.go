package pso

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Sentinel errors.
var (
	// ErrNilDevice is returned when constructing a manager without a
	// device.
	ErrNilDevice = errors.New("pso: device is nil")

	// ErrNilHandle reports a driver create call that returned success
	// together with a nil pipeline handle.
	ErrNilHandle = errors.New("pso: driver returned success but no pipeline handle")

	// ErrEmptyShaderBlob is returned when a shader blob carries neither
	// SPIR-V nor WGSL.
	ErrEmptyShaderBlob = errors.New("pso: shader blob is empty")

	// ErrWrongKind is returned when a program identifier's namespace
	// does not match the operation's pipeline kind.
	ErrWrongKind = errors.New("pso: program identifier kind mismatch")

	// ErrNotCompiled is returned when group handles are requested from
	// a raytracing pipeline whose compile failed.
	ErrNotCompiled = errors.New("pso: pipeline is not compiled")
)

// FatalHandler receives unrecoverable errors: compilation failures and
// configuration contract violations. A half-built GPU pipeline cannot
// be used mid-frame, so there is no fallback path.
type FatalHandler func(error)

// defaultFatal logs the error and panics. Rendering backends typically
// install a handler that routes into their own fatal-error machinery.
func defaultFatal(err error) {
	Logger().Error("pso: fatal", "err", err)
	panic(err)
}

var fatalPtr atomic.Pointer[FatalHandler]

func init() {
	h := FatalHandler(defaultFatal)
	fatalPtr.Store(&h)
}

// SetFatalHandler replaces the process-wide fatal error handler.
// Pass nil to restore the default log-and-panic behavior.
func SetFatalHandler(h FatalHandler) {
	if h == nil {
		h = defaultFatal
	}
	fatalPtr.Store(&h)
}

// fatal routes an unrecoverable error to the installed handler. It does
// not return unless the handler itself returns (tests do this to
// observe the assertion path).
func fatal(err error) {
	(*fatalPtr.Load())(err)
}

// fatalf formats an unrecoverable error. Supports %w wrapping.
func fatalf(format string, args ...any) {
	fatal(fmt.Errorf(format, args...))
}
