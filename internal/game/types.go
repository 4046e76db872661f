package game

import "github.com/pefman/hd2-armory/internal/models"

// Selection is what the caller picked in the calculator: rows of the weapon group,
// hits per row (missing or below 1 counts as 1) and the target zone.
type Selection struct {
	RowIndices []int       `json:"rows"`
	HitsByRow  map[int]int `json:"hits,omitempty"`
	ZoneIndex  int         `json:"zone"`
}

// AttackColumns names the sheet columns the formula reads.
type AttackColumns struct {
	Name             string
	AttackName       string
	AttackType       string
	Damage           string
	Duration         string
	ArmorPenetration string
}

// ColumnsFor takes the resolved roles and falls back to the usual sheet headers.
func ColumnsFor(roles models.ColumnRoles) AttackColumns {
	or := func(v, def string) string {
		if v != "" {
			return v
		}
		return def
	}
	return AttackColumns{
		Name:             or(roles.Name, "Name"),
		AttackName:       or(roles.AttackName, "Atk Name"),
		AttackType:       or(roles.AttackType, "Atk Type"),
		Damage:           or(roles.Damage, "DMG"),
		Duration:         or(roles.Duration, "DUR"),
		ArmorPenetration: or(roles.ArmorPenetration, "AP"),
	}
}

// AttackResult is the per-hit damage of one attack row against one zone.
type AttackResult struct {
	Row                   int     `json:"row"`
	Name                  string  `json:"name"`
	Damage                float64 `json:"dmg"`
	Duration              float64 `json:"dur"`
	DurabilityFraction    float64 `json:"dur_pct"`
	ArmorPenetration      int     `json:"ap"`
	ArmorValue            int     `json:"av"`
	PenetrationMultiplier float64 `json:"ap_multi"`
	Explosive             bool    `json:"explosive"`
	ExplosionMultiplier   float64 `json:"ex_mult"`
	BaseDamage            float64 `json:"base_damage"`
	ZoneDamagePerHit      float64 `json:"zone_damage_per_hit"`
	MainDamagePerHit      float64 `json:"main_damage_per_hit"`
	Hits                  int     `json:"hits"`

	Formula     string `json:"formula"`
	Substituted string `json:"substituted"`
}

// Totals aggregates attacks weighted by hits. Nil shot counts are not computable.
type Totals struct {
	TotalZoneDamagePerCycle            float64 `json:"total_zone_damage_per_cycle"`
	TotalMainDamagePerCycle            float64 `json:"total_main_damage_per_cycle"`
	ShotsToDestroyZone                 *int    `json:"shots_to_destroy_zone"`
	ShotsToDepleteZoneWithConstitution *int    `json:"shots_to_deplete_zone_with_con"`
	ShotsToDestroyMain                 *int    `json:"shots_to_destroy_main"`
}

// Result is a full calculator projection. Inputs are never modified.
type Result struct {
	Weapon  string         `json:"weapon"`
	Faction string         `json:"faction"`
	Unit    string         `json:"unit"`
	Zone    string         `json:"zone"`
	Attacks []AttackResult `json:"attacks"`
	Totals
	Logs []string `json:"logs"`
}
