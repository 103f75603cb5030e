package apperror

import "runtime/debug"

// currentStack captures the caller's stack trace. Only invoked when
// Verbose is true, since stack capture is relatively expensive and the
// trace is never shown to callers in production (§7).
func currentStack() []byte {
	return debug.Stack()
}
