// Package enemies loads the faction -> unit -> damageable zone document and
// answers faction and free-text filters over it.
package enemies

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pefman/hd2-armory/internal/models"
	"github.com/pefman/hd2-armory/internal/numparse"
)

// DataFormatError reports a document whose shape is not
// {faction: {unit: {health, damageable_zones: [zone]}}}.
type DataFormatError struct {
	Path   string
	Reason string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("enemy data %s: %s", e.Path, e.Reason)
}

func formatErr(path, format string, args ...any) error {
	return &DataFormatError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Roster is the single owner of the loaded enemy units and their indices.
// It is not safe for concurrent use.
type Roster struct {
	factions     []string
	units        []*models.EnemyUnit
	factionIndex map[string][]*models.EnemyUnit
	searchIndex  map[*models.EnemyUnit]string
}

func NewRoster() *Roster {
	return &Roster{
		factionIndex: map[string][]*models.EnemyUnit{},
		searchIndex:  map[*models.EnemyUnit]string{},
	}
}

// Parse decodes a document into factions and units, both in document order.
// A repeated key keeps its first position and its last value, so a repeated
// faction replaces the units read for it earlier.
func Parse(doc []byte) ([]string, []*models.EnemyUnit, error) {
	if !gjson.ValidBytes(doc) {
		return nil, nil, formatErr("$", "invalid JSON")
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return nil, nil, formatErr("$", "expected an object of factions, got %s", root.Type)
	}

	var (
		factions []string
		byFac    = map[string][]*models.EnemyUnit{}
		err      error
	)
	root.ForEach(func(fk, fv gjson.Result) bool {
		faction := fk.String()
		if !fv.IsObject() {
			err = formatErr(faction, "expected an object of units, got %s", fv.Type)
			return false
		}
		if _, seen := byFac[faction]; !seen {
			factions = append(factions, faction)
		}
		var (
			units []*models.EnemyUnit
			pos   = map[string]int{}
		)
		fv.ForEach(func(uk, uv gjson.Result) bool {
			var u *models.EnemyUnit
			u, err = decodeUnit(faction, uk.String(), uv)
			if err != nil {
				return false
			}
			if i, ok := pos[u.Name]; ok {
				units[i] = u
				return true
			}
			pos[u.Name] = len(units)
			units = append(units, u)
			return true
		})
		byFac[faction] = units
		return err == nil
	})
	if err != nil {
		return nil, nil, err
	}

	var units []*models.EnemyUnit
	for _, f := range factions {
		units = append(units, byFac[f]...)
	}
	return factions, units, nil
}

func decodeUnit(faction, name string, v gjson.Result) (*models.EnemyUnit, error) {
	path := faction + "." + name
	if !v.IsObject() {
		return nil, formatErr(path, "expected a unit object, got %s", v.Type)
	}
	u := &models.EnemyUnit{Faction: faction, Name: name}

	switch h := v.Get("health"); h.Type {
	case gjson.Number:
		u.Health = h.Num
	case gjson.Null:
	default:
		return nil, formatErr(path+".health", "expected a number, got %s", h.Type)
	}

	zones := v.Get("damageable_zones")
	switch {
	case !zones.Exists() || zones.Type == gjson.Null:
		return u, nil
	case !zones.IsArray():
		return nil, formatErr(path+".damageable_zones", "expected an array, got %s", zones.Type)
	}
	var err error
	zones.ForEach(func(_, zv gjson.Result) bool {
		if !zv.IsObject() {
			err = formatErr(fmt.Sprintf("%s.damageable_zones[%d]", path, len(u.Zones)), "expected a zone object, got %s", zv.Type)
			return false
		}
		u.Zones = append(u.Zones, decodeZone(zv))
		return true
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func decodeZone(v gjson.Result) models.EnemyZone {
	z := models.EnemyZone{ExplosionMultiplier: models.ExplosionMultiplier{Immune: true}}
	v.ForEach(func(k, fv gjson.Result) bool {
		key := k.String()
		z.Fields = append(z.Fields, models.ZoneField{Key: key, Value: cellOf(fv)})
		switch key {
		case "zone_name":
			z.ZoneName = fv.String()
		case "health":
			z.Health = fv.Float()
		case "Con":
			z.Constitution = fv.Float()
		case "Dur%":
			z.DurabilityFraction = fv.Float()
		case "AV":
			z.ArmorValue = int(fv.Int())
		case "IsFatal":
			z.IsFatal = fv.Bool()
		case "ExTarget":
			z.ExplosionTarget = fv.String()
		case "ExMult":
			z.ExplosionMultiplier = explosionMultiplier(fv)
		case "ToMain%":
			z.ToMainFraction = fv.Float()
		case "MainCap":
			z.MainCapped = fv.Bool()
		}
		return true
	})
	return z
}

// explosionMultiplier reads ExMult. Missing, null and "-" mean immune; text that is
// not a number counts as 1.
func explosionMultiplier(v gjson.Result) models.ExplosionMultiplier {
	switch v.Type {
	case gjson.Null:
		return models.ExplosionMultiplier{Immune: true}
	case gjson.Number:
		return models.ExplosionMultiplier{Value: v.Num}
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if s == models.ImmuneMarker {
			return models.ExplosionMultiplier{Immune: true}
		}
		if f, ok := numparse.Strict(s); ok {
			return models.ExplosionMultiplier{Value: f}
		}
	}
	return models.ExplosionMultiplier{Value: 1}
}

func cellOf(v gjson.Result) models.Cell {
	switch v.Type {
	case gjson.String:
		return models.Text(v.Str)
	case gjson.Number:
		return models.Number(v.Num)
	case gjson.True:
		return models.Boolean(true)
	case gjson.False:
		return models.Boolean(false)
	case gjson.JSON:
		return models.Text(v.Raw)
	}
	return models.Null()
}

// Load replaces the roster with the units of doc. On error the previous roster is kept.
func (r *Roster) Load(doc []byte) error {
	factions, units, err := Parse(doc)
	if err != nil {
		return err
	}
	r.factions = factions
	r.units = units
	r.rebuildIndices()
	return nil
}

func (r *Roster) rebuildIndices() {
	r.factionIndex = make(map[string][]*models.EnemyUnit, len(r.factions))
	r.searchIndex = make(map[*models.EnemyUnit]string, len(r.units))
	for _, u := range r.units {
		r.factionIndex[u.Faction] = append(r.factionIndex[u.Faction], u)
		r.searchIndex[u] = searchText(u)
	}
}

// searchText is faction, unit name, zone names and every zone value, lowercased.
// Zero, false and null values contribute nothing.
func searchText(u *models.EnemyUnit) string {
	parts := []string{u.Faction, u.Name}
	for _, z := range u.Zones {
		parts = append(parts, z.ZoneName)
	}
	for _, z := range u.Zones {
		for _, f := range z.Fields {
			parts = append(parts, fieldText(f.Value))
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func fieldText(c models.Cell) string {
	switch {
	case c.Kind == models.CellNumber && c.Num == 0:
		return ""
	case c.Kind == models.CellBool && !c.Bool:
		return ""
	}
	return c.String()
}

func (r *Roster) Factions() []string { return append([]string(nil), r.factions...) }
func (r *Roster) Len() int           { return len(r.units) }

// Units returns every unit in document order.
func (r *Roster) Units() []*models.EnemyUnit {
	return append([]*models.EnemyUnit(nil), r.units...)
}

// Unit looks a unit up by faction and name.
func (r *Roster) Unit(faction, name string) (*models.EnemyUnit, bool) {
	for _, u := range r.factionIndex[faction] {
		if u.Name == name {
			return u, true
		}
	}
	return nil, false
}

// SearchText returns the indexed text for a unit.
func (r *Roster) SearchText(u *models.EnemyUnit) (string, bool) {
	t, ok := r.searchIndex[u]
	return t, ok
}

// FilterResult mirrors weapons.FilterResult: Active is false when no filter is set.
type FilterResult struct {
	Active bool
	Units  []*models.EnemyUnit
}

// Filter keeps units of the selected factions whose search text contains every
// word of query. The query is plain words; '&' and '|' have no special meaning.
func (r *Roster) Filter(factions []string, query string) FilterResult {
	var selected []string
	for _, f := range factions {
		if f = strings.TrimSpace(f); f != "" {
			selected = append(selected, f)
		}
	}
	words := strings.Fields(strings.ToLower(query))
	if len(selected) == 0 && len(words) == 0 {
		return FilterResult{}
	}

	var inFaction map[*models.EnemyUnit]bool
	if len(selected) > 0 {
		inFaction = map[*models.EnemyUnit]bool{}
		for _, f := range selected {
			for _, u := range r.factionIndex[f] {
				inFaction[u] = true
			}
		}
	}

	out := []*models.EnemyUnit{}
	for _, u := range r.units {
		if inFaction != nil && !inFaction[u] {
			continue
		}
		if !containsAll(r.searchIndex[u], words) {
			continue
		}
		out = append(out, u)
	}
	return FilterResult{Active: true, Units: out}
}

func containsAll(text string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}

// Visible resolves a FilterResult to the units to display.
func (r *Roster) Visible(res FilterResult) []*models.EnemyUnit {
	if !res.Active {
		return r.Units()
	}
	return res.Units
}
