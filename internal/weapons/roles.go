package weapons

import (
	"strings"

	"github.com/pefman/hd2-armory/internal/models"
)

// ResolveRoles maps semantic column roles onto a sheet's headers. Matching is
// case-insensitive; within each rule an exact name is tried before the looser
// fallback, and the first qualifying header in header order wins.
func ResolveRoles(headers []string) models.ColumnRoles {
	lower := func(s string) string { return strings.ToLower(s) }
	find := func(pred func(h string) bool) string {
		for _, h := range headers {
			if pred(lower(h)) {
				return h
			}
		}
		return ""
	}
	oneOf := func(set ...string) func(string) bool {
		return func(h string) bool {
			for _, s := range set {
				if h == s {
					return true
				}
			}
			return false
		}
	}
	firstOf := func(preds ...func(string) bool) string {
		for _, p := range preds {
			if h := find(p); h != "" {
				return h
			}
		}
		return ""
	}

	var r models.ColumnRoles
	r.Type = firstOf(
		oneOf("type"),
		func(h string) bool { return strings.Contains(h, "weapon") && strings.Contains(h, "type") },
	)
	r.Sub = find(func(h string) bool { return h == "sub" || h == "subtype" || strings.Contains(h, "sub ") })
	r.Code = find(oneOf("code"))
	r.Name = firstOf(oneOf("name"), oneOf("atkname"))
	if r.Name == "" && len(headers) > 0 {
		r.Name = headers[0]
	}
	r.AttackType = find(func(h string) bool {
		return h == "atktype" || h == "atk type" || strings.Contains(h, "attack type")
	})
	if r.AttackType == "" {
		for _, h := range headers {
			if h == "Stage" {
				r.AttackType = h
				break
			}
		}
	}
	r.AttackName = find(func(h string) bool { return strings.Join(strings.Fields(h), "") == "atkname" })
	r.Damage = find(oneOf("damage", "dmg"))
	r.Duration = find(oneOf("dur", "duration"))
	r.ArmorPenetration = find(func(h string) bool {
		return h == "ap" || (strings.Contains(h, "armor") && strings.Contains(h, "pen"))
	})
	return r
}
