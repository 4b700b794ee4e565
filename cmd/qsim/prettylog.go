package main

import (
	"context"
	"io"
	"log"
	"log/slog"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
)

// PrettyHandlerOptions wraps the slog options the handler honors.
type PrettyHandlerOptions struct {
	SlogOpts slog.HandlerOptions
}

// PrettyHandler renders slog records as colored, human readable lines
// for local development, pretty printing the attributes as JSON.
type PrettyHandler struct {
	slog.Handler
	l *log.Logger
}

func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"

	switch r.Level {
	case slog.LevelDebug:
		level = color.MagentaString(level)
	case slog.LevelInfo:
		level = color.BlueString(level)
	case slog.LevelWarn:
		level = color.YellowString(level)
	case slog.LevelError:
		level = color.RedString(level)
	}

	fields := make(map[string]any, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = a.Value.Any()
		return true
	})

	timeStr := r.Time.Format("[15:04:05.000]")
	msg := color.CyanString(r.Message)

	if len(fields) > 0 {
		b, err := jsoniter.ConfigFastest.MarshalIndent(fields, "", "  ")
		if err != nil {
			return err
		}
		h.l.Println(timeStr, level, msg, color.WhiteString(string(b)))
	} else {
		h.l.Println(timeStr, level, msg)
	}

	return nil
}

// NewPrettyHandler builds a PrettyHandler writing to out. Enabled,
// WithAttrs and WithGroup are delegated to an embedded JSON handler.
func NewPrettyHandler(out io.Writer, opts PrettyHandlerOptions) *PrettyHandler {
	return &PrettyHandler{
		Handler: slog.NewJSONHandler(out, &opts.SlogOpts),
		l:       log.New(out, "", 0),
	}
}
