package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyTitle      = "title"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyURL        = "url"
	KeyPages      = "pages"
	KeyDepth      = "depth"
	KeyPass       = "pass"
	KeyStatus     = "status"
	KeyBytes      = "bytes"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func Depth(d int) slog.Attr           { return slog.Int(KeyDepth, d) }
func Pass(p int) slog.Attr            { return slog.Int(KeyPass, p) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
