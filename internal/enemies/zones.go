package enemies

import (
	"sort"
	"strings"

	"github.com/pefman/hd2-armory/internal/models"
)

// SortZones orders a copy of zones by the raw document field key. Zones without the
// field go last in either direction. Two numbers compare numerically, anything else
// compares as lowercased text.
func SortZones(zones []models.EnemyZone, key string, dir models.Direction) []models.EnemyZone {
	out := append([]models.EnemyZone(nil), zones...)
	if key == "" {
		return out
	}
	cl := models.NewCollator()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Field(key), out[j].Field(key)
		switch {
		case a.IsNull():
			return false
		case b.IsNull():
			return true
		}
		if a.IsNumberKind() && b.IsNumberKind() {
			if dir == models.Desc {
				return a.Num > b.Num
			}
			return a.Num < b.Num
		}
		c := cl.CompareString(strings.ToLower(a.String()), strings.ToLower(b.String()))
		if dir == models.Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// SortUnitZones returns copies of units with their zones sorted.
func SortUnitZones(units []*models.EnemyUnit, key string, dir models.Direction) []*models.EnemyUnit {
	out := make([]*models.EnemyUnit, len(units))
	for i, u := range units {
		cp := *u
		cp.Zones = SortZones(u.Zones, key, dir)
		out[i] = &cp
	}
	return out
}
