package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// ErrFmtHandler decorates a slog handler so that records carrying an error
// under ErrAttrKey (a failed fit, solve, or kernel evaluation built by
// pkg/errors) also emit the cockroachdb stacktrace under StacktraceAttrKey.
// Records without an error attribute pass through untouched.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler decorates handler with stacktrace extraction. The
// logging setup in this package wraps its JSON handlers through it so every
// logged library error carries its origin.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{
		handler: handler,
	}
}

// Enabled implements slog.Handler.
func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

// Handle implements slog.Handler. It scans the record for the error
// attribute and, when the error carries safe details, appends the first
// non-empty one as the stacktrace attribute before delegating.
func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var stacktrace string
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			stacktrace = extractStacktrace(err)
		}
		return false
	})
	if stacktrace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
	}
	return eh.handler.Handle(ctx, r)
}

// WithAttrs implements slog.Handler, keeping the decoration on the derived
// handler.
func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler, keeping the decoration on the derived
// handler.
func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

// extractStacktrace pulls the stacktrace out of a cockroachdb error's safe
// details. Errors built outside pkg/errors carry none and yield "".
func extractStacktrace(err error) string {
	for _, detail := range errors.GetSafeDetails(err).SafeDetails {
		if detail != "" {
			return detail
		}
	}
	return ""
}
