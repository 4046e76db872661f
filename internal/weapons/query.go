package weapons

import (
	"strings"

	"github.com/pefman/hd2-armory/internal/models"
)

// MatchQuery evaluates the search mini-language against already lowercased text.
//
// The query is split on '&' first and every part must match; a part without '&'
// is split on '|' and any alternative may match; a part with neither is a list of
// words that must all appear as substrings. "rifle | pistol & grenade" therefore
// reads as (rifle OR pistol) AND grenade.
func MatchQuery(text, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if strings.Contains(q, "&") {
		for _, part := range nonEmpty(strings.Split(q, "&")) {
			if !MatchQuery(text, part) {
				return false
			}
		}
		return true
	}
	if strings.Contains(q, "|") {
		parts := nonEmpty(strings.Split(q, "|"))
		if len(parts) == 0 {
			return true
		}
		for _, part := range parts {
			if MatchQuery(text, part) {
				return true
			}
		}
		return false
	}
	for _, w := range strings.Fields(q) {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EvaluateQuery returns the groups whose search text matches query, in creation order.
func (s *Store) EvaluateQuery(query string) []*models.WeaponGroup {
	var out []*models.WeaponGroup
	for _, g := range s.groups {
		if t, ok := s.searchIndex[g]; ok && MatchQuery(t, query) {
			out = append(out, g)
		}
	}
	return out
}

// PinSet holds weapon names that stay visible regardless of filters. Pins are keyed by
// name so they survive a reload of the same sheet.
type PinSet map[string]struct{}

func Pins(names ...string) PinSet {
	p := PinSet{}
	for _, n := range names {
		p[n] = struct{}{}
	}
	return p
}

func (p PinSet) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// FilterResult is the outcome of ApplyFilters. When Active is false no filter was
// set and the caller should show every group.
type FilterResult struct {
	Active bool
	Groups []*models.WeaponGroup
}

// ApplyFilters intersects the category, sub-category and query hits, skipping any
// filter with no active selection, then adds pinned groups back in. Output keeps
// creation order.
func (s *Store) ApplyFilters(categories, subs []string, query string, pinned PinSet) FilterResult {
	categories = normalizeKeys(categories)
	subs = normalizeKeys(subs)
	query = strings.ToLower(strings.TrimSpace(query))
	if len(categories) == 0 && len(subs) == 0 && query == "" {
		return FilterResult{}
	}

	inCategory := indexHits(s.categoryIndex, categories)
	inSub := indexHits(s.subIndex, subs)

	out := []*models.WeaponGroup{}
	for _, g := range s.groups {
		if pinned.Has(g.Name) {
			out = append(out, g)
			continue
		}
		if inCategory != nil && !inCategory[g] {
			continue
		}
		if inSub != nil && !inSub[g] {
			continue
		}
		if query != "" && !MatchQuery(s.searchIndex[g], query) {
			continue
		}
		out = append(out, g)
	}
	return FilterResult{Active: true, Groups: out}
}

// Visible resolves a FilterResult to the groups to display.
func (s *Store) Visible(r FilterResult) []*models.WeaponGroup {
	if !r.Active {
		return s.Groups()
	}
	return r.Groups
}

// indexHits is nil when no keys are selected, so the filter is skipped.
func indexHits(idx map[string][]*models.WeaponGroup, keys []string) map[*models.WeaponGroup]bool {
	if len(keys) == 0 {
		return nil
	}
	hits := map[*models.WeaponGroup]bool{}
	for _, k := range keys {
		for _, g := range idx[k] {
			hits[g] = true
		}
	}
	return hits
}

func normalizeKeys(keys []string) []string {
	var out []string
	for _, k := range keys {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}
