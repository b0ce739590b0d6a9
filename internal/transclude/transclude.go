// Package transclude expands {{:Title}} markers inside wikitext bodies by
// fetching and rendering the referenced pages. Expansion is single-level:
// substituted fragments are not rescanned, which bounds recursion and rules
// out expansion cycles.
package transclude

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"wikibook/internal/config"
	"wikibook/internal/errors"
)

// markerRe matches a transclusion marker: a page title wrapped in double
// braces with a leading colon.
var markerRe = regexp.MustCompile(`\{\{:(.+?)\}\}`)

// FetchRenderFunc fetches one page by title and returns a fragment already
// rendered back into the enclosing body's markup format.
type FetchRenderFunc func(ctx context.Context, title string) (string, error)

// Resolver substitutes transclusion markers with rendered fragments.
type Resolver struct {
	fetch  FetchRenderFunc
	policy config.TransclusionPolicy
}

// NewResolver builds a resolver around a fetch callback. policy decides what
// a failed fetch does: fail the build or drop the marker with a warning.
func NewResolver(fetch FetchRenderFunc, policy config.TransclusionPolicy) *Resolver {
	if policy == "" {
		policy = config.TransclusionFail
	}
	return &Resolver{fetch: fetch, policy: policy}
}

// Resolve returns a copy of body with every transclusion marker replaced.
// The input is never mutated; the result contains no remaining markers.
// Identical markers are fetched once and share the rendered fragment.
func (r *Resolver) Resolve(ctx context.Context, body string) (string, error) {
	matches := markerRe.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return body, nil
	}

	rendered := make(map[string]string)
	for _, m := range matches {
		marker, title := m[0], strings.TrimSpace(m[1])
		if _, done := rendered[marker]; done {
			continue
		}

		slog.Info("Resolving transclusion", "title", title)
		fragment, err := r.fetch(ctx, title)
		if err != nil {
			if r.policy == config.TransclusionSkip {
				slog.Warn("Dropping unresolvable transclusion", "title", title, "error", err)
				rendered[marker] = ""
				continue
			}
			return "", errors.TransclusionFetch(title, err)
		}
		rendered[marker] = fragment
	}

	// Substitute in a single pass so fragments containing marker syntax
	// are never expanded themselves.
	out := markerRe.ReplaceAllStringFunc(body, func(marker string) string {
		return rendered[marker]
	})
	return out, nil
}
