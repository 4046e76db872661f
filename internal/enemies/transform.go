package enemies

import (
	"bytes"
	"math"
	"regexp"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Document is the enemy document produced by TransformDump: faction -> unit name -> unit.
type Document map[string]map[string]*DumpUnit

// DumpUnit is one unit of a transformed dump. Zones hold only the renamed fields.
type DumpUnit struct {
	DamageableZones []map[string]any `json:"damageable_zones"`
	Health          any              `json:"health"`
}

// Units counts the units across all factions.
func (d Document) Units() int {
	n := 0
	for _, units := range d {
		n += len(units)
	}
	return n
}

// Marshal writes the document with sorted keys and two-space indentation.
func (d Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var factionKeyRe = regexp.MustCompile(`content/fac_([^/]+)/`)

var factionNames = map[string]string{
	"bugs":        "Terminid",
	"cyborgs":     "Automaton",
	"cyborg":      "Automaton",
	"illuminate":  "Illuminate",
	"illuminates": "Illuminate",
}

// NormalizeFaction maps a fac_* path segment to a faction label. Super Earth,
// Helldivers and anything unknown map to "".
func NormalizeFaction(raw string) string {
	return factionNames[strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "")]
}

// SanitizeName cuts a localisation string at its "^_^" marker. Purely numeric
// names become "[unknown]".
func SanitizeName(s string) string {
	if i := strings.Index(s, "^_^"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s != "" && strings.Trim(s, "0123456789") == "" {
		return "[unknown]"
	}
	return s
}

var fatalKeys = []string{
	"causes_death_on_death",
	"causes_death_on_downed",
	"causes_downed_on_death",
	"causes_downed_on_downed",
}

// TransformDump converts a raw game data dump keyed by content path into a Document.
// Units that appear more than once in a faction keep the entry with the most zones,
// then the higher health; on a full tie the first entry wins.
func TransformDump(dump []byte) (Document, error) {
	if !gjson.ValidBytes(dump) {
		return nil, formatErr("$", "invalid JSON")
	}
	root := gjson.ParseBytes(dump)
	if !root.IsObject() {
		return nil, formatErr("$", "expected an object keyed by content path, got %s", root.Type)
	}

	doc := Document{}
	root.ForEach(func(k, payload gjson.Result) bool {
		key := k.String()
		if !payload.IsObject() || !strings.HasPrefix(key, "content/fac_") {
			return true
		}
		m := factionKeyRe.FindStringSubmatch(key)
		if m == nil {
			return true
		}
		faction := NormalizeFaction(m[1])
		if faction == "" {
			return true
		}
		loc := payload.Get("loc_name")
		if !truthy(loc) || strings.EqualFold(strings.TrimSpace(loc.String()), "N/A") {
			return true
		}
		name := SanitizeName(loc.String())

		var zones []map[string]any
		if raw := payload.Get("damageable_zones"); raw.IsArray() {
			raw.ForEach(func(_, z gjson.Result) bool {
				if tz := transformZone(z); len(tz) > 0 {
					zones = append(zones, tz)
				}
				return true
			})
		}
		health := payload.Get("health")
		if def := payload.Get("default_damageable_zone_info"); def.IsObject() {
			if main := transformZone(def); len(main) > 0 {
				main["zone_name"] = "Main"
				if health.Exists() && health.Type != gjson.Null {
					main["health"] = health.Value()
				}
				zones = append([]map[string]any{main}, zones...)
			}
		}
		if zones == nil {
			zones = []map[string]any{}
		}

		cur := &DumpUnit{DamageableZones: zones, Health: health.Value()}
		if doc[faction] == nil {
			doc[faction] = map[string]*DumpUnit{}
		}
		if prev, ok := doc[faction][name]; !ok || betterThan(cur, prev) {
			doc[faction][name] = cur
		}
		return true
	})
	return doc, nil
}

func betterThan(a, b *DumpUnit) bool {
	if len(a.DamageableZones) != len(b.DamageableZones) {
		return len(a.DamageableZones) > len(b.DamageableZones)
	}
	return healthOf(a) > healthOf(b)
}

func healthOf(u *DumpUnit) float64 {
	if f, ok := u.Health.(float64); ok {
		return f
	}
	return 0
}

// transformZone keeps and renames the fields the enemy document uses. A zone may
// wrap its fields in an "info" object.
func transformZone(z gjson.Result) map[string]any {
	if !z.IsObject() {
		return nil
	}
	src := z
	if info := z.Get("info"); info.IsObject() {
		src = info
	}
	out := map[string]any{}

	if v := src.Get("zone_name"); present(v) {
		out["zone_name"] = SanitizeName(v.String())
	}
	for from, to := range map[string]string{"health": "health", "constitution": "Con", "armor": "AV"} {
		if v := src.Get(from); present(v) {
			out[to] = v.Value()
		}
	}
	if v := src.Get("affected_by_explosions"); v.Exists() {
		out["ExTarget"] = explosionTarget(v)
	}
	for from, to := range map[string]string{
		"affects_main_health":                      "ToMain%",
		"main_health_affect_capped_by_zone_health": "MainCap",
		"projectile_durable_resistance":            "Dur%",
	} {
		if v := src.Get(from); v.Exists() {
			out[to] = v.Value()
		}
	}
	if v := src.Get("explosion_damage_multiplier"); present(v) {
		if f, ok := looseFloat(v); ok {
			switch {
			case f == -1:
				out["ExMult"] = "-"
			case f != 0:
				out["ExMult"] = f
			}
		} else if s := SanitizeName(v.String()); s != "" {
			out["ExMult"] = s
		}
	}
	for _, k := range fatalKeys {
		if n, ok := looseInt(src.Get(k)); ok && n == 1 {
			out["IsFatal"] = true
			break
		}
	}
	return out
}

// explosionTarget is "Main" when affected_by_explosions is zero, otherwise "Part".
func explosionTarget(v gjson.Result) string {
	if n, ok := looseInt(v); ok && n == 0 {
		return "Main"
	}
	return "Part"
}

func present(v gjson.Result) bool { return v.Exists() && v.Type != gjson.Null }

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	case gjson.True, gjson.JSON:
		return true
	}
	return false
}

func looseFloat(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Num, true
	case gjson.True:
		return 1, true
	case gjson.False:
		return 0, true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		return f, err == nil
	}
	return 0, false
}

func looseInt(v gjson.Result) (int, bool) {
	if v.Type == gjson.String {
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		return n, err == nil
	}
	f, ok := looseFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
