// Package recovery provides panic recovery for request entry points.
// Ensures user-provided compute functions and source implementations
// don't crash the embedding host.
package recovery

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// ToValue wraps a function that returns a value and error. If the
// function panics, the panic is logged with its stack and returned as
// an error.
//
// Example:
//
//	page, err := recovery.ToValue(logger, "Page", func() (*Page, error) {
//	    return e.page(ctx, name, req)
//	})
func ToValue[T any](logger *slog.Logger, operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic recovered",
				"operation", operation,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			var zero T
			result = zero
			err = fmt.Errorf("%s panicked: %v", operation, r)
		}
	}()

	return fn()
}
