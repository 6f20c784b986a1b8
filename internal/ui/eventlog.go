package ui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bamsammich/partsplit/internal/event"
)

// TeeToLog writes a structured "partsplit.event" record for every event
// and forwards it unchanged. The returned channel closes after in does.
func TeeToLog(logger *slog.Logger, in <-chan event.Event) <-chan event.Event {
	out := make(chan event.Event, cap(in))
	go func() {
		defer close(out)
		for ev := range in {
			attrs := []slog.Attr{
				slog.String("type", ev.Type.String()),
				slog.String("path", ev.Path),
				slog.Int64("size", ev.Size),
			}
			if ev.Target != "" {
				attrs = append(attrs, slog.String("target", ev.Target))
			}
			if ev.Index > 0 {
				attrs = append(attrs, slog.Int("index", ev.Index))
			}
			if len(ev.Removed) > 0 {
				attrs = append(attrs, slog.String("removed", strings.Join(ev.Removed, ",")))
			}
			if ev.DryRun {
				attrs = append(attrs, slog.Bool("dry_run", true))
			}
			if ev.Error != nil {
				attrs = append(attrs, slog.String("error", ev.Error.Error()))
			}
			logger.LogAttrs(context.Background(), slog.LevelInfo, "partsplit.event", attrs...)
			out <- ev
		}
	}()
	return out
}
