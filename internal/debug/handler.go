package debug

import (
	"context"
	"log/slog"
)

// componentHandler forwards to the global handler at log time, prefixing
// every record with a component attribute.
type componentHandler struct {
	component string
	// ops replays With and WithGroup calls in the order they were made.
	ops []handlerOp
}

type handlerOp struct {
	attrs []slog.Attr
	group string
}

func (h *componentHandler) target() slog.Handler {
	t := Logger().Handler().WithAttrs([]slog.Attr{slog.String("component", h.component)})
	for _, op := range h.ops {
		if op.group != "" {
			t = t.WithGroup(op.group)
		} else {
			t = t.WithAttrs(op.attrs)
		}
	}
	return t
}

func (h *componentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return Logger().Handler().Enabled(ctx, level)
}

func (h *componentHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.target().Handle(ctx, r)
}

func (h *componentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.with(handlerOp{attrs: append([]slog.Attr(nil), attrs...)})
}

func (h *componentHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(handlerOp{group: name})
}

func (h *componentHandler) with(op handlerOp) *componentHandler {
	ops := make([]handlerOp, len(h.ops), len(h.ops)+1)
	copy(ops, h.ops)
	return &componentHandler{component: h.component, ops: append(ops, op)}
}
