package weapons

import (
	"math"
	"sort"

	"github.com/pefman/hd2-armory/internal/models"
)

const (
	numericSampleSize = 40
	numericMinSamples = 3
)

// GuessIsNumericColumn samples up to 40 cells of col across groups in creation order.
// The column is numeric when at least 3 of the non-empty samples are numbers and they
// make up 60% or more of the non-empty samples.
func (s *Store) GuessIsNumericColumn(col string) bool {
	sampled, nonEmpty, numeric := 0, 0, 0
outer:
	for _, g := range s.groups {
		for _, r := range g.Rows {
			if sampled >= numericSampleSize {
				break outer
			}
			sampled++
			c := r.Get(col)
			if c.IsBlank() {
				continue
			}
			nonEmpty++
			if _, ok := c.Float(); ok {
				numeric++
			}
		}
	}
	return numeric >= numericMinSamples && numeric*5 >= nonEmpty*3
}

// SortGroups returns groups ordered by col. The name column sorts as text; numeric
// columns sort by each group's largest value (missing values count as -Inf); other
// columns sort by the first non-empty value in row order. The input is not modified.
func (s *Store) SortGroups(groups []*models.WeaponGroup, col string, dir models.Direction) []*models.WeaponGroup {
	out := append([]*models.WeaponGroup(nil), groups...)
	if col == "" {
		return out
	}
	cl := models.NewCollator()
	var less func(i, j int) bool

	switch {
	case col == s.roles.Name:
		less = func(i, j int) bool {
			c := cl.CompareString(out[i].Name, out[j].Name)
			if dir == models.Desc {
				return c > 0
			}
			return c < 0
		}
	case s.GuessIsNumericColumn(col):
		vals := make(map[*models.WeaponGroup]float64, len(out))
		for _, g := range out {
			vals[g] = maxValue(g, col)
		}
		less = func(i, j int) bool {
			a, b := vals[out[i]], vals[out[j]]
			if dir == models.Desc {
				return a > b
			}
			return a < b
		}
	default:
		vals := make(map[*models.WeaponGroup]string, len(out))
		for _, g := range out {
			vals[g] = firstText(g, col)
		}
		less = func(i, j int) bool {
			c := cl.CompareString(vals[out[i]], vals[out[j]])
			if dir == models.Desc {
				return c > 0
			}
			return c < 0
		}
	}
	sort.SliceStable(out, less)
	return out
}

func maxValue(g *models.WeaponGroup, col string) float64 {
	best := math.Inf(-1)
	for _, r := range g.Rows {
		if v, ok := r.Get(col).Float(); ok && v > best {
			best = v
		}
	}
	return best
}

func firstText(g *models.WeaponGroup, col string) string {
	for _, r := range g.Rows {
		if c := r.Get(col); !c.IsNull() && c.String() != "" {
			return c.String()
		}
	}
	return ""
}

func sortStrings(ss []string) {
	cl := models.NewCollator()
	sort.SliceStable(ss, func(i, j int) bool { return cl.CompareString(ss[i], ss[j]) < 0 })
}
