package game

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pefman/hd2-armory/internal/models"
	"github.com/pefman/hd2-armory/internal/numparse"
)

// Formula is the damage formula in display form.
const Formula = "Damage = ((DMG × (1 - Dur%)) + (DUR × Dur%)) × AP_Multi × ExMult"

// Penetration tiers.
const (
	PenetrationBlocked = 0.0
	PenetrationEqual   = 0.65
	PenetrationFull    = 1.0
)

// PenetrationMultiplier is 0 below the armor value, 0.65 at it and 1 above it.
func PenetrationMultiplier(ap, av int) float64 {
	switch {
	case ap < av:
		return PenetrationBlocked
	case ap == av:
		return PenetrationEqual
	default:
		return PenetrationFull
	}
}

// IsExplosive reports whether an attack type counts as an explosion.
func IsExplosive(attackType string) bool {
	return strings.Contains(strings.ToLower(attackType), "explosion")
}

// explosionFactor is 1 for non-explosive attacks, 0 for immune zones and otherwise
// the zone value, where zero or NaN counts as 1.
func explosionFactor(explosive bool, m models.ExplosionMultiplier) float64 {
	if !explosive {
		return 1
	}
	if m.Immune {
		return 0
	}
	if m.Value == 0 || math.IsNaN(m.Value) {
		return 1
	}
	return m.Value
}

// EvaluateAttack computes one attack row's damage per hit against zone.
// Unparseable numbers count as zero.
func EvaluateAttack(row models.AttackRow, zone models.EnemyZone, cols AttackColumns) AttackResult {
	name := row.Get(cols.AttackName).String()
	if name == "" {
		name = row.Get(cols.Name).String()
	}
	if name == "" {
		name = "Unknown"
	}

	ar := AttackResult{
		Name:               name,
		Damage:             numparse.FloatOr(row.Get(cols.Damage).String(), 0),
		Duration:           numparse.FloatOr(row.Get(cols.Duration).String(), 0),
		DurabilityFraction: zone.DurabilityFraction,
		ArmorPenetration:   numparse.IntOr(row.Get(cols.ArmorPenetration).String(), 0),
		ArmorValue:         zone.ArmorValue,
		Explosive:          IsExplosive(row.Get(cols.AttackType).String()),
		Hits:               1,
		Formula:            Formula,
	}
	ar.PenetrationMultiplier = PenetrationMultiplier(ar.ArmorPenetration, ar.ArmorValue)
	ar.ExplosionMultiplier = explosionFactor(ar.Explosive, zone.ExplosionMultiplier)
	ar.BaseDamage = ar.Damage*(1-ar.DurabilityFraction) + ar.Duration*ar.DurabilityFraction
	ar.ZoneDamagePerHit = ar.BaseDamage * ar.PenetrationMultiplier * ar.ExplosionMultiplier
	ar.MainDamagePerHit = ar.ZoneDamagePerHit * zone.ToMainFraction
	ar.Substituted = substitute(ar)
	return ar
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func substitute(ar AttackResult) string {
	var apText string
	switch ar.PenetrationMultiplier {
	case PenetrationBlocked:
		apText = "0 (AP < AV)"
	case PenetrationEqual:
		apText = "0.65 (AP = AV)"
	default:
		apText = "1.0 (AP > AV)"
	}
	exText := "1.0"
	if ar.Explosive {
		if ar.ExplosionMultiplier == 0 {
			exText = "0 (immune)"
		} else {
			exText = num(ar.ExplosionMultiplier)
		}
	}
	return fmt.Sprintf("Damage = ((%s × (1 - %s)) + (%s × %s)) × %s × %s",
		num(ar.Damage), num(ar.DurabilityFraction), num(ar.Duration), num(ar.DurabilityFraction), apText, exText)
}

// ceilPtr returns nil when the ceiling does not fit in an int.
func ceilPtr(v float64) *int {
	c := math.Ceil(v)
	if math.IsNaN(c) || math.IsInf(c, 0) || c >= math.MaxInt || c < 0 {
		return nil
	}
	n := int(c)
	return &n
}

// AggregateDamage sums attacks weighted by their hits and derives shot counts.
// Indestructible zones never get a zone shot count.
func AggregateDamage(attacks []AttackResult, zone models.EnemyZone, unitHealth float64) Totals {
	var t Totals
	for _, a := range attacks {
		t.TotalZoneDamagePerCycle += a.ZoneDamagePerHit * float64(a.Hits)
		t.TotalMainDamagePerCycle += a.MainDamagePerHit * float64(a.Hits)
	}
	if t.TotalZoneDamagePerCycle > 0 && !zone.Indestructible() {
		t.ShotsToDestroyZone = ceilPtr(zone.Health / t.TotalZoneDamagePerCycle)
		if zone.Constitution > 0 {
			t.ShotsToDepleteZoneWithConstitution = ceilPtr((zone.Health + zone.Constitution) / t.TotalZoneDamagePerCycle)
		}
	}
	if unitHealth > 0 && t.TotalMainDamagePerCycle > 0 {
		t.ShotsToDestroyMain = ceilPtr(unitHealth / t.TotalMainDamagePerCycle)
	}
	return t
}

// selectedRows sorts and dedupes the selection, dropping indices outside [0, n).
func selectedRows(idx []int, n int) []int {
	seen := map[int]bool{}
	var out []int
	for _, i := range idx {
		if i < 0 || i >= n || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// ComputeDamage evaluates the selected rows of weapon against one zone of unit.
// It returns nil when the weapon, unit, zone or rows are missing.
func ComputeDamage(weapon *models.WeaponGroup, unit *models.EnemyUnit, sel Selection, cols AttackColumns) *Result {
	if weapon == nil || unit == nil {
		return nil
	}
	if sel.ZoneIndex < 0 || sel.ZoneIndex >= len(unit.Zones) {
		return nil
	}
	rows := selectedRows(sel.RowIndices, len(weapon.Rows))
	if len(rows) == 0 {
		return nil
	}
	zone := unit.Zones[sel.ZoneIndex]

	res := &Result{Weapon: weapon.Name, Faction: unit.Faction, Unit: unit.Name, Zone: zone.ZoneName}
	res.Logs = append(res.Logs, fmt.Sprintf("Target: %s %s, zone %s (AV %d, Dur%% %s, ToMain%% %s)",
		unit.Faction, unit.Name, zone.ZoneName, zone.ArmorValue, num(zone.DurabilityFraction), num(zone.ToMainFraction)))

	for _, i := range rows {
		ar := EvaluateAttack(weapon.Rows[i], zone, cols)
		ar.Row = i
		if h, ok := sel.HitsByRow[i]; ok && h > 1 {
			ar.Hits = h
		}
		res.Attacks = append(res.Attacks, ar)
		res.Logs = append(res.Logs, fmt.Sprintf("%s: %s -> %.2f per hit x %d", ar.Name, ar.Substituted, ar.ZoneDamagePerHit, ar.Hits))
	}

	res.Totals = AggregateDamage(res.Attacks, zone, unit.Health)
	res.Logs = append(res.Logs, fmt.Sprintf("Total per cycle: zone %.2f, main %.2f", res.TotalZoneDamagePerCycle, res.TotalMainDamagePerCycle))
	if res.ShotsToDestroyZone != nil {
		res.Logs = append(res.Logs, fmt.Sprintf("Shots to destroy %s: %d", zone.ZoneName, *res.ShotsToDestroyZone))
	}
	if res.ShotsToDepleteZoneWithConstitution != nil {
		res.Logs = append(res.Logs, fmt.Sprintf("Shots including Con: %d", *res.ShotsToDepleteZoneWithConstitution))
	}
	if res.ShotsToDestroyMain != nil {
		res.Logs = append(res.Logs, fmt.Sprintf("Shots to kill via main health: %d", *res.ShotsToDestroyMain))
	}
	return res
}
