package enemies

import (
	"reflect"
	"strings"
	"testing"
)

const sampleDump = `{
  "content/fac_bugs/charger/charger": {
    "loc_name": "Charger^_^extra",
    "health": 1500,
    "default_damageable_zone_info": {"health": 999, "constitution": 0, "armor": 1, "affected_by_explosions": 0, "explosion_damage_multiplier": 0, "causes_death_on_death": 1},
    "damageable_zones": [
      {"info": {"zone_name": "head^_^x", "health": 750, "armor": 4, "affected_by_explosions": 1, "explosion_damage_multiplier": -1, "projectile_durable_resistance": 0.5, "affects_main_health": 1, "max_armor": 9}},
      {"zone_name": "12345", "health": 100, "explosion_damage_multiplier": 1.5, "causes_downed_on_downed": 0},
      "notazone",
      {"max_armor": 3}
    ]
  },
  "content/fac_bugs/charger/charger_small": {"loc_name": "Charger", "health": 2000, "damageable_zones": []},
  "content/fac_cyborgs/hulk/hulk": {"loc_name": "Hulk", "health": 3000},
  "content/fac_super_earth/seaf/seaf": {"loc_name": "SEAF", "health": 100},
  "content/fac_illuminate/x/x": {"loc_name": "N/A", "health": 1},
  "content/fac_illuminate/y/y": {"loc_name": "", "health": 1},
  "content/props/barrel": {"loc_name": "Barrel"}
}`

func TestTransformDump(t *testing.T) {
	doc, err := TransformDump([]byte(sampleDump))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Units() != 2 || len(doc) != 2 {
		t.Fatalf("doc has %d factions, %d units: %+v", len(doc), doc.Units(), doc)
	}
	charger := doc["Terminid"]["Charger"]
	if charger == nil {
		t.Fatal("Charger missing")
	}
	if charger.Health != float64(1500) {
		t.Errorf("Charger health = %v, want 1500 (first entry has more zones)", charger.Health)
	}
	want := []map[string]any{
		{"zone_name": "Main", "health": float64(1500), "Con": float64(0), "AV": float64(1), "ExTarget": "Main", "IsFatal": true},
		{"zone_name": "head", "health": float64(750), "AV": float64(4), "ExTarget": "Part", "ExMult": "-", "Dur%": 0.5, "ToMain%": float64(1)},
		{"zone_name": "[unknown]", "health": float64(100), "ExMult": 1.5},
	}
	if !reflect.DeepEqual(charger.DamageableZones, want) {
		t.Errorf("Charger zones =\n%v\nwant\n%v", charger.DamageableZones, want)
	}
	hulk := doc["Automaton"]["Hulk"]
	if hulk == nil || len(hulk.DamageableZones) != 0 {
		t.Errorf("Hulk = %+v", hulk)
	}
}

func TestTransformDumpRoundTrip(t *testing.T) {
	doc, err := TransformDump([]byte(sampleDump))
	if err != nil {
		t.Fatal(err)
	}
	out, err := doc.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "{\n  \"Automaton\"") {
		t.Errorf("factions not sorted:\n%s", s)
	}
	if strings.Index(s, `"AV"`) > strings.Index(s, `"zone_name"`) {
		t.Errorf("zone keys not sorted:\n%s", s)
	}
	r := NewRoster()
	if err := r.Load(out); err != nil {
		t.Fatalf("Load(transformed): %v", err)
	}
	charger, ok := r.Unit("Terminid", "Charger")
	if !ok || charger.ZoneCount() != 3 {
		t.Fatalf("Charger = %+v", charger)
	}
	if !charger.Zones[1].ExplosionMultiplier.Immune {
		t.Error("head should be immune to explosions")
	}
	if !charger.Zones[0].IsFatal || charger.Zones[0].ExplosionTarget != "Main" {
		t.Errorf("Main zone = %+v", charger.Zones[0])
	}
}

func TestTransformDumpRejectsNonObject(t *testing.T) {
	for _, in := range []string{`[]`, `garbage`} {
		if _, err := TransformDump([]byte(in)); err == nil {
			t.Errorf("TransformDump(%s) succeeded", in)
		}
	}
}

func TestNormalizeFaction(t *testing.T) {
	tests := map[string]string{
		"bugs":        "Terminid",
		"Cyborgs":     "Automaton",
		"cyborg":      "Automaton",
		"illuminate":  "Illuminate",
		"super_earth": "",
		"helldivers":  "",
		"unknown":     "",
	}
	for in, want := range tests {
		if got := NormalizeFaction(in); got != want {
			t.Errorf("NormalizeFaction(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"Charger^_^loc":  "Charger",
		"  Bile Titan  ": "Bile Titan",
		"12345":          "[unknown]",
		"123^_^abc":      "[unknown]",
		"":               "",
		"^_^":            "",
		"Zone 2":         "Zone 2",
	}
	for in, want := range tests {
		if got := SanitizeName(in); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
