package game

import (
	"math"
	"testing"

	"github.com/pefman/hd2-armory/internal/enemies"
	"github.com/pefman/hd2-armory/internal/models"
	"github.com/pefman/hd2-armory/internal/weapons"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func intp(n int) *int { return &n }

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func fixtures(t *testing.T) (*weapons.Store, *enemies.Roster) {
	t.Helper()
	s := weapons.NewStore()
	if err := s.LoadFixture(); err != nil {
		t.Fatal(err)
	}
	r := enemies.NewRoster()
	if err := r.LoadFixture(); err != nil {
		t.Fatal(err)
	}
	return s, r
}

func TestPenetrationMultiplier(t *testing.T) {
	tests := []struct {
		ap, av int
		want   float64
	}{
		{2, 3, 0},
		{3, 3, 0.65},
		{4, 3, 1.0},
		{0, 0, 0.65},
		{6, 0, 1.0},
	}
	for _, tt := range tests {
		if got := PenetrationMultiplier(tt.ap, tt.av); got != tt.want {
			t.Errorf("PenetrationMultiplier(%d, %d) = %v, want %v", tt.ap, tt.av, got, tt.want)
		}
	}
}

func row(cells map[string]string) models.AttackRow {
	var r models.AttackRow
	for _, k := range []string{"Name", "Atk Name", "Atk Type", "AP", "DMG", "DUR"} {
		if v, ok := cells[k]; ok {
			r.Set(k, models.Text(v))
		}
	}
	return r
}

func TestEvaluateAttack(t *testing.T) {
	cols := ColumnsFor(models.ColumnRoles{})
	tests := []struct {
		name     string
		row      models.AttackRow
		zone     models.EnemyZone
		wantZone float64
		wantMain float64
	}{
		{
			name:     "plain hit, no armor",
			row:      row(map[string]string{"DMG": "90", "DUR": "22", "AP": "2"}),
			zone:     models.EnemyZone{ToMainFraction: 1},
			wantZone: 90, wantMain: 90,
		},
		{
			name:     "durable blend",
			row:      row(map[string]string{"DMG": "100", "DUR": "20", "AP": "4"}),
			zone:     models.EnemyZone{ArmorValue: 3, DurabilityFraction: 0.25, ToMainFraction: 0.5},
			wantZone: 80, wantMain: 40,
		},
		{
			name:     "blocked by armor",
			row:      row(map[string]string{"DMG": "500", "AP": "3"}),
			zone:     models.EnemyZone{ArmorValue: 4, ToMainFraction: 1},
			wantZone: 0, wantMain: 0,
		},
		{
			name:     "explosion against immune zone",
			row:      row(map[string]string{"DMG": "500", "AP": "9", "Atk Type": "Explosion"}),
			zone:     models.EnemyZone{ExplosionMultiplier: models.ExplosionMultiplier{Immune: true}, ToMainFraction: 1},
			wantZone: 0, wantMain: 0,
		},
		{
			name:     "explosion multiplier",
			row:      row(map[string]string{"DMG": "200", "AP": "5", "Atk Type": "explosion (impact)"}),
			zone:     models.EnemyZone{ExplosionMultiplier: models.ExplosionMultiplier{Value: 0.5}, ToMainFraction: 1},
			wantZone: 100, wantMain: 100,
		},
		{
			name:     "zero explosion multiplier counts as one",
			row:      row(map[string]string{"DMG": "200", "AP": "5", "Atk Type": "Explosion"}),
			zone:     models.EnemyZone{ToMainFraction: 1},
			wantZone: 200, wantMain: 200,
		},
		{
			name:     "immunity ignored for projectiles",
			row:      row(map[string]string{"DMG": "50", "AP": "1", "Atk Type": "Projectile"}),
			zone:     models.EnemyZone{ExplosionMultiplier: models.ExplosionMultiplier{Immune: true}},
			wantZone: 50, wantMain: 0,
		},
		{
			name:     "annotated AP and junk damage",
			row:      row(map[string]string{"DMG": "n/a", "DUR": "10", "AP": "6+"}),
			zone:     models.EnemyZone{ArmorValue: 5, DurabilityFraction: 1, ToMainFraction: 1},
			wantZone: 10, wantMain: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateAttack(tt.row, tt.zone, cols)
			if !near(got.ZoneDamagePerHit, tt.wantZone) || !near(got.MainDamagePerHit, tt.wantMain) {
				t.Errorf("zone/main = %v/%v, want %v/%v", got.ZoneDamagePerHit, got.MainDamagePerHit, tt.wantZone, tt.wantMain)
			}
		})
	}
}

func TestEvaluateAttackName(t *testing.T) {
	cols := ColumnsFor(models.ColumnRoles{})
	tests := []struct {
		row  models.AttackRow
		want string
	}{
		{row(map[string]string{"Name": "Eruptor", "Atk Name": "Shrapnel"}), "Shrapnel"},
		{row(map[string]string{"Name": "Eruptor"}), "Eruptor"},
		{row(map[string]string{"DMG": "1"}), "Unknown"},
	}
	for _, tt := range tests {
		if got := EvaluateAttack(tt.row, models.EnemyZone{}, cols).Name; got != tt.want {
			t.Errorf("Name = %q, want %q", got, tt.want)
		}
	}
}

func TestAggregateDamage(t *testing.T) {
	tests := []struct {
		name      string
		attacks   []AttackResult
		zone      models.EnemyZone
		unit      float64
		zoneShots *int
		conShots  *int
		mainShots *int
	}{
		{
			name:      "zone 200 at 90 per cycle",
			attacks:   []AttackResult{{ZoneDamagePerHit: 90, Hits: 1}},
			zone:      models.EnemyZone{Health: 200, Constitution: 50},
			zoneShots: intp(3), conShots: intp(3),
		},
		{
			name:      "hits weight the totals",
			attacks:   []AttackResult{{ZoneDamagePerHit: 50, MainDamagePerHit: 25, Hits: 3}, {ZoneDamagePerHit: 10, MainDamagePerHit: 10, Hits: 1}},
			zone:      models.EnemyZone{Health: 300},
			unit:      1000,
			zoneShots: intp(2), mainShots: intp(12),
		},
		{
			name:    "no damage",
			attacks: []AttackResult{{ZoneDamagePerHit: 0, Hits: 4}},
			zone:    models.EnemyZone{Health: 300, Constitution: 100},
			unit:    1000,
		},
		{
			name:      "indestructible zone",
			attacks:   []AttackResult{{ZoneDamagePerHit: 40, MainDamagePerHit: 40, Hits: 1}},
			zone:      models.EnemyZone{Health: -1, Constitution: 100},
			unit:      400,
			mainShots: intp(10),
		},
		{
			name:    "shot count beyond int range",
			attacks: []AttackResult{{ZoneDamagePerHit: 1e-300, MainDamagePerHit: 1e-300, Hits: 1}},
			zone:    models.EnemyZone{Health: 200, Constitution: 50},
			unit:    1500,
		},
		{
			name:      "unit without health",
			attacks:   []AttackResult{{ZoneDamagePerHit: 40, MainDamagePerHit: 40, Hits: 1}},
			zone:      models.EnemyZone{Health: 100},
			zoneShots: intp(3),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateDamage(tt.attacks, tt.zone, tt.unit)
			if !sameInt(got.ShotsToDestroyZone, tt.zoneShots) {
				t.Errorf("ShotsToDestroyZone = %v, want %v", got.ShotsToDestroyZone, tt.zoneShots)
			}
			if !sameInt(got.ShotsToDepleteZoneWithConstitution, tt.conShots) {
				t.Errorf("ShotsToDepleteZoneWithConstitution = %v, want %v", got.ShotsToDepleteZoneWithConstitution, tt.conShots)
			}
			if !sameInt(got.ShotsToDestroyMain, tt.mainShots) {
				t.Errorf("ShotsToDestroyMain = %v, want %v", got.ShotsToDestroyMain, tt.mainShots)
			}
		})
	}
}

func TestComputeDamageFixtures(t *testing.T) {
	s, r := fixtures(t)
	cols := ColumnsFor(s.Roles())
	gp, _ := s.Group("Grenade Pistol")
	charger, _ := r.Unit("Terminid", "Charger")

	res := ComputeDamage(gp, charger, Selection{RowIndices: []int{1, 0, 1, 7}, HitsByRow: map[int]int{0: 2, 1: -3}, ZoneIndex: 2}, cols)
	if res == nil {
		t.Fatal("nil result")
	}
	if len(res.Attacks) != 2 || res.Attacks[0].Row != 0 || res.Attacks[1].Row != 1 {
		t.Fatalf("attacks = %+v", res.Attacks)
	}
	if res.Attacks[0].Hits != 2 || res.Attacks[1].Hits != 1 {
		t.Errorf("hits = %d/%d, want 2/1", res.Attacks[0].Hits, res.Attacks[1].Hits)
	}
	if !near(res.TotalZoneDamagePerCycle, 240) || !near(res.TotalMainDamagePerCycle, 120) {
		t.Errorf("totals = %v/%v, want 240/120", res.TotalZoneDamagePerCycle, res.TotalMainDamagePerCycle)
	}
	if !sameInt(res.ShotsToDestroyZone, intp(2)) || !sameInt(res.ShotsToDepleteZoneWithConstitution, intp(3)) || !sameInt(res.ShotsToDestroyMain, intp(13)) {
		t.Errorf("shots = %v/%v/%v", res.ShotsToDestroyZone, res.ShotsToDepleteZoneWithConstitution, res.ShotsToDestroyMain)
	}
	if want := "Damage = ((120 × (1 - 0)) + (0 × 0)) × 1.0 (AP > AV) × 0.5"; res.Attacks[1].Substituted != want {
		t.Errorf("Substituted = %q, want %q", res.Attacks[1].Substituted, want)
	}
	if res.Attacks[1].Formula != Formula || len(res.Logs) == 0 {
		t.Error("missing formula or logs")
	}

	head := ComputeDamage(gp, charger, Selection{RowIndices: []int{1}, ZoneIndex: 1}, cols)
	if want := "Damage = ((120 × (1 - 0.5)) + (0 × 0.5)) × 0 (AP < AV) × 0 (immune)"; head.Attacks[0].Substituted != want {
		t.Errorf("Substituted = %q, want %q", head.Attacks[0].Substituted, want)
	}
	if head.ShotsToDestroyZone != nil || head.ShotsToDestroyMain != nil {
		t.Error("zero damage should not produce shot counts")
	}

	laser, _ := s.Group("Orbital Laser")
	plate := ComputeDamage(laser, charger, Selection{RowIndices: []int{0}, ZoneIndex: 3}, cols)
	if !near(plate.TotalZoneDamagePerCycle, 2) || plate.ShotsToDestroyZone != nil || plate.ShotsToDestroyMain != nil {
		t.Errorf("armor plate = %+v", plate.Totals)
	}
}

func TestComputeDamageMissingInputs(t *testing.T) {
	s, r := fixtures(t)
	cols := ColumnsFor(s.Roles())
	gp, _ := s.Group("Grenade Pistol")
	charger, _ := r.Unit("Terminid", "Charger")
	tests := []struct {
		name   string
		weapon *models.WeaponGroup
		unit   *models.EnemyUnit
		sel    Selection
	}{
		{"no weapon", nil, charger, Selection{RowIndices: []int{0}}},
		{"no unit", gp, nil, Selection{RowIndices: []int{0}}},
		{"zone out of range", gp, charger, Selection{RowIndices: []int{0}, ZoneIndex: 9}},
		{"negative zone", gp, charger, Selection{RowIndices: []int{0}, ZoneIndex: -1}},
		{"no rows", gp, charger, Selection{}},
		{"rows out of range", gp, charger, Selection{RowIndices: []int{5, -1}}},
	}
	for _, tt := range tests {
		if got := ComputeDamage(tt.weapon, tt.unit, tt.sel, cols); got != nil {
			t.Errorf("%s: got %+v, want nil", tt.name, got)
		}
	}
}

func TestComputeDamageDoesNotMutate(t *testing.T) {
	s, r := fixtures(t)
	gp, _ := s.Group("Grenade Pistol")
	charger, _ := r.Unit("Terminid", "Charger")
	before := gp.Rows[0].Get("DMG")
	zoneBefore := charger.Zones[2]
	ComputeDamage(gp, charger, Selection{RowIndices: []int{0, 1}, ZoneIndex: 2}, ColumnsFor(s.Roles()))
	if gp.Rows[0].Get("DMG") != before || charger.Zones[2].Health != zoneBefore.Health || len(gp.Rows) != 2 {
		t.Error("ComputeDamage mutated its inputs")
	}
}

func TestColumnsFor(t *testing.T) {
	got := ColumnsFor(models.ColumnRoles{Damage: "Damage", AttackType: "Stage"})
	want := AttackColumns{Name: "Name", AttackName: "Atk Name", AttackType: "Stage", Damage: "Damage", Duration: "DUR", ArmorPenetration: "AP"}
	if got != want {
		t.Errorf("ColumnsFor = %+v, want %+v", got, want)
	}
}
