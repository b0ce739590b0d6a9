package config

import (
	"log/slog"
	"os"
	"strings"
)

// RenderMode controls whether the pdflatex step runs after chapter generation.
type RenderMode string

const (
	RenderModeAuto   RenderMode = "auto"   // run when pdflatex is on PATH
	RenderModeAlways RenderMode = "always" // fail if pdflatex is missing
	RenderModeNever  RenderMode = "never"
)

// NormalizeRenderMode canonicalizes user input returning empty string if unknown.
func NormalizeRenderMode(raw string) RenderMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(RenderModeAuto):
		return RenderModeAuto
	case string(RenderModeAlways):
		return RenderModeAlways
	case string(RenderModeNever):
		return RenderModeNever
	default:
		return ""
	}
}

// ResolveEffectiveRenderMode determines the final render decision.
// Precedence:
// 1. WIKIBOOK_SKIP_LATEX=1 => never
// 2. WIKIBOOK_RUN_LATEX=1 => always
// 3. build.render_mode (always|never|auto)
// 4. fallback: auto
func ResolveEffectiveRenderMode(cfg *Config) RenderMode {
	if os.Getenv("WIKIBOOK_SKIP_LATEX") == "1" {
		if cfg != nil && cfg.Build.RenderMode != RenderModeNever {
			slog.Info("Overriding configured render_mode due to WIKIBOOK_SKIP_LATEX=1", "configured", cfg.Build.RenderMode)
		}
		return RenderModeNever
	}
	if os.Getenv("WIKIBOOK_RUN_LATEX") == "1" {
		if cfg != nil && cfg.Build.RenderMode != RenderModeAlways {
			slog.Info("Overriding configured render_mode due to WIKIBOOK_RUN_LATEX=1", "configured", cfg.Build.RenderMode)
		}
		return RenderModeAlways
	}
	if cfg == nil {
		return RenderModeAuto
	}
	switch cfg.Build.RenderMode {
	case RenderModeAlways:
		return RenderModeAlways
	case RenderModeNever:
		return RenderModeNever
	default:
		return RenderModeAuto
	}
}
