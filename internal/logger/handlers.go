package logger

import (
	"io"
	"log/slog"
	"time"
)

// levelNames adds names for levels slog doesn't know about.
var levelNames = map[slog.Level]string{
	traceLevelValue: "TRACE",
}

// replaceAttrFunc renames custom levels and renders timestamps in tz.
func replaceAttrFunc(tz *time.Location) func(groups []string, a slog.Attr) slog.Attr {
	if tz == nil {
		tz = time.UTC
	}
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) > 0 {
			return a
		}
		switch a.Key {
		case slog.LevelKey:
			level, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			label, exists := levelNames[level]
			if !exists {
				label = level.String()
			}
			a.Value = slog.StringValue(label)
		case slog.TimeKey:
			if t, ok := a.Value.Any().(time.Time); ok {
				a.Value = slog.StringValue(t.In(tz).Format(time.RFC3339))
			}
		}
		return a
	}
}

// newTextHandler creates the human-readable console handler
func newTextHandler(w io.Writer, level slog.Level, tz *time.Location) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttrFunc(tz),
	})
}

// newJSONHandler creates the structured file handler
func newJSONHandler(w io.Writer, level slog.Level, tz *time.Location) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttrFunc(tz),
	})
}
