package weapons

import (
	"strings"

	"github.com/pefman/hd2-armory/internal/models"
)

// RebuildIndices clears and repopulates the category, sub-category and search
// indices from the current groups. Nothing is patched incrementally.
func (s *Store) RebuildIndices() {
	s.categoryIndex = make(map[string][]*models.WeaponGroup)
	s.subIndex = make(map[string][]*models.WeaponGroup)
	s.searchIndex = make(map[*models.WeaponGroup]string, len(s.groups))

	for _, g := range s.groups {
		if g.Type != "" {
			k := strings.ToLower(g.Type)
			s.categoryIndex[k] = append(s.categoryIndex[k], g)
		}
		if g.Sub != "" {
			k := strings.ToLower(g.Sub)
			s.subIndex[k] = append(s.subIndex[k], g)
		}
		s.searchIndex[g] = searchText(g)
	}
}

// searchText is the lowercased name plus every cell of every row, space joined.
func searchText(g *models.WeaponGroup) string {
	parts := []string{g.Name}
	for _, r := range g.Rows {
		for _, c := range r.Values() {
			parts = append(parts, c.String())
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// CategoryKeys lists the lowercased categories present in the index.
func (s *Store) CategoryKeys() []string { return keysOf(s.categoryIndex) }

// SubKeys lists the lowercased sub-categories present in the index.
func (s *Store) SubKeys() []string { return keysOf(s.subIndex) }

// SearchText returns the indexed text for a group.
func (s *Store) SearchText(g *models.WeaponGroup) (string, bool) {
	t, ok := s.searchIndex[g]
	return t, ok
}

func keysOf(m map[string][]*models.WeaponGroup) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sortStrings(out)
	return out
}
