package enemies

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pefman/hd2-armory/internal/models"
)

func fixtureRoster(t *testing.T) *Roster {
	t.Helper()
	r := NewRoster()
	if err := r.LoadFixture(); err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	return r
}

func unitNames(us []*models.EnemyUnit) []string {
	out := make([]string, len(us))
	for i, u := range us {
		out[i] = u.Name
	}
	return out
}

func TestLoadFixture(t *testing.T) {
	r := fixtureRoster(t)
	if got, want := r.Factions(), []string{"Terminid", "Automaton"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Factions() = %q, want %q", got, want)
	}
	if got, want := unitNames(r.Units()), []string{"Charger", "Hunter", "Devastator"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Units() = %q, want %q", got, want)
	}

	charger, ok := r.Unit("Terminid", "Charger")
	if !ok {
		t.Fatal("Charger missing")
	}
	if charger.Health != 1500 || charger.ZoneCount() != 4 {
		t.Errorf("Charger = health %v, %d zones", charger.Health, charger.ZoneCount())
	}
	head := charger.Zones[1]
	if head.ZoneName != "head" || head.ArmorValue != 4 || head.DurabilityFraction != 0.5 || !head.ExplosionMultiplier.Immune {
		t.Errorf("head = %+v", head)
	}
	leg := charger.Zones[2]
	if leg.Constitution != 300 || leg.ExplosionMultiplier != (models.ExplosionMultiplier{Value: 0.5}) || !leg.MainCapped || leg.ToMainFraction != 0.5 {
		t.Errorf("rear_leg = %+v", leg)
	}
	plate := charger.Zones[3]
	if !plate.Indestructible() || !plate.ExplosionMultiplier.Immune {
		t.Errorf("armor_plate = %+v", plate)
	}
	if _, ok := r.Unit("Automaton", "Charger"); ok {
		t.Error("Unit lookup ignored faction")
	}
}

func TestExplosionMultiplierDecoding(t *testing.T) {
	tests := []struct {
		zone string
		want models.ExplosionMultiplier
	}{
		{`{"ExMult": 0.75}`, models.ExplosionMultiplier{Value: 0.75}},
		{`{"ExMult": "-"}`, models.ExplosionMultiplier{Immune: true}},
		{`{"ExMult": null}`, models.ExplosionMultiplier{Immune: true}},
		{`{}`, models.ExplosionMultiplier{Immune: true}},
		{`{"ExMult": "1.5"}`, models.ExplosionMultiplier{Value: 1.5}},
		{`{"ExMult": "n/a"}`, models.ExplosionMultiplier{Value: 1}},
	}
	for _, tt := range tests {
		doc := `{"F": {"U": {"health": 10, "damageable_zones": [` + tt.zone + `]}}}`
		_, units, err := Parse([]byte(doc))
		if err != nil {
			t.Fatalf("%s: %v", tt.zone, err)
		}
		if got := units[0].Zones[0].ExplosionMultiplier; got != tt.want {
			t.Errorf("%s: ExMult = %+v, want %+v", tt.zone, got, tt.want)
		}
	}
}

func TestLoadShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"not json", `nope`, "$"},
		{"array root", `[]`, "$"},
		{"faction not object", `{"T": []}`, "T"},
		{"unit not object", `{"T": {"U": 5}}`, "T.U"},
		{"health not number", `{"T": {"U": {"health": "x"}}}`, "T.U.health"},
		{"zones not array", `{"T": {"U": {"damageable_zones": {}}}}`, "T.U.damageable_zones"},
		{"zone not object", `{"T": {"U": {"damageable_zones": [{}, 1]}}}`, "T.U.damageable_zones[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := fixtureRoster(t)
			err := r.Load([]byte(tt.doc))
			var dfe *DataFormatError
			if !errors.As(err, &dfe) {
				t.Fatalf("err = %v, want *DataFormatError", err)
			}
			if dfe.Path != tt.path {
				t.Errorf("Path = %q, want %q", dfe.Path, tt.path)
			}
			if r.Len() != 3 {
				t.Errorf("roster changed after failed load: Len = %d", r.Len())
			}
		})
	}
}

func TestLoadMissingZones(t *testing.T) {
	r := NewRoster()
	if err := r.Load([]byte(`{"T": {"U": {"health": 10}, "V": {"health": null, "damageable_zones": null}}}`)); err != nil {
		t.Fatal(err)
	}
	for _, u := range r.Units() {
		if u.ZoneCount() != 0 {
			t.Errorf("%s has %d zones", u.Name, u.ZoneCount())
		}
	}
}

func TestLoadDuplicateKeys(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		factions []string
		units    []string
		health   map[string]float64
	}{
		{
			name:     "unit repeated",
			doc:      `{"Terminid": {"Hunter": {"health": 100}, "Charger": {"health": 1500}, "Hunter": {"health": 200}}}`,
			factions: []string{"Terminid"},
			units:    []string{"Hunter", "Charger"},
			health:   map[string]float64{"Terminid/Hunter": 200, "Terminid/Charger": 1500},
		},
		{
			name:     "faction repeated",
			doc:      `{"Terminid": {"Hunter": {"health": 100}}, "Automaton": {"Devastator": {"health": 400}}, "Terminid": {"Charger": {"health": 1500}}}`,
			factions: []string{"Terminid", "Automaton"},
			units:    []string{"Charger", "Devastator"},
			health:   map[string]float64{"Terminid/Charger": 1500, "Automaton/Devastator": 400},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRoster()
			if err := r.Load([]byte(tt.doc)); err != nil {
				t.Fatal(err)
			}
			if got := r.Factions(); !reflect.DeepEqual(got, tt.factions) {
				t.Errorf("Factions() = %q, want %q", got, tt.factions)
			}
			if got := unitNames(r.Units()); !reflect.DeepEqual(got, tt.units) {
				t.Errorf("Units() = %q, want %q", got, tt.units)
			}
			for _, u := range r.Units() {
				if want := tt.health[u.Faction+"/"+u.Name]; u.Health != want {
					t.Errorf("%s/%s health = %v, want %v", u.Faction, u.Name, u.Health, want)
				}
			}
			if _, ok := r.Unit("Terminid", "Hunter"); ok != (tt.name == "unit repeated") {
				t.Errorf("Hunter present = %v", ok)
			}
		})
	}
}

func TestSearchText(t *testing.T) {
	r := fixtureRoster(t)
	u, _ := r.Unit("Terminid", "Hunter")
	got, _ := r.SearchText(u)
	if want := "terminid hunter main main 200  true main 1 1"; got != want {
		t.Errorf("SearchText = %q, want %q", got, want)
	}
}

func TestFilter(t *testing.T) {
	r := fixtureRoster(t)
	tests := []struct {
		name     string
		factions []string
		query    string
		active   bool
		want     []string
	}{
		{"nothing active", nil, "  ", false, []string{}},
		{"faction", []string{"Automaton"}, "", true, []string{"Devastator"}},
		{"words", nil, "head", true, []string{"Charger", "Devastator"}},
		{"all words", nil, "head rear_leg", true, []string{"Charger"}},
		{"numbers", nil, "1500", true, []string{"Charger"}},
		{"faction and words", []string{"Terminid"}, "MAIN", true, []string{"Charger", "Hunter"}},
		{"pipe is a plain word", nil, "head | hunter", true, []string{}},
		{"ampersand is a plain word", nil, "charger & head", true, []string{}},
		{"unknown faction", []string{"Illuminate"}, "", true, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Filter(tt.factions, tt.query)
			if res.Active != tt.active {
				t.Errorf("Active = %v, want %v", res.Active, tt.active)
			}
			if got := unitNames(res.Units); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Units = %q, want %q", got, tt.want)
			}
		})
	}
	if got := len(r.Visible(r.Filter(nil, ""))); got != 3 {
		t.Errorf("Visible() = %d units, want 3", got)
	}
}
