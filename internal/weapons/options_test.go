package weapons

import (
	"reflect"
	"testing"
)

func TestTypeChips(t *testing.T) {
	s := fixtureStore(t)
	chips := s.TypeChips()
	var values []string
	for _, c := range chips {
		values = append(values, c.Value)
		if c.Active != (c.Value == "primary") {
			t.Errorf("chip %s active = %v", c.Value, c.Active)
		}
	}
	want := []string{"primary", "secondary", "grenade", "support", "stratagem"}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("TypeChips = %q, want %q", values, want)
	}
	if chips[0].Label != "Primary" {
		t.Errorf("label = %q", chips[0].Label)
	}
}

func TestSubChips(t *testing.T) {
	s := fixtureStore(t)
	var values []string
	for _, c := range s.SubChips() {
		values = append(values, c.Value)
	}
	want := []string{"anti-armor", "energy", "explosive", "orbital", "sidearm", "spray"}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("SubChips = %q, want %q", values, want)
	}
}

func TestCalculatorOptions(t *testing.T) {
	s := fixtureStore(t)
	var labels []string
	for _, o := range s.CalculatorOptions() {
		labels = append(labels, o.Label)
	}
	want := []string{
		"[Primary][Energy]ARC-01 Arc Blaster",
		"[Primary][Spray]FLM-10 Flamethrower",
		"[Secondary][Sidearm]GNP-02 Grenade Pistol",
		"[Grenade][Explosive]GL6-FR GL-6 Frag",
		"[Support][Orbital]OBL-77 Orbital Laser",
		"[Stratagem][Anti-Armor]SPR-09 Spear",
	}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("CalculatorOptions = %q, want %q", labels, want)
	}
}

func TestSearchOptions(t *testing.T) {
	s := fixtureStore(t)
	tests := []struct {
		query string
		want  []string
	}{
		{"sidearm", []string{"Grenade Pistol"}},
		{"PRIMARY", []string{"Arc Blaster", "Flamethrower"}},
		{"obl-77 orbital", []string{"Orbital Laser"}},
		{"", []string{"Arc Blaster", "Flamethrower", "Grenade Pistol", "GL-6 Frag", "Orbital Laser", "Spear"}},
		{"railgun", nil},
	}
	for _, tt := range tests {
		var got []string
		for _, o := range s.SearchOptions(tt.query) {
			got = append(got, o.Name)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SearchOptions(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestClassifyAttack(t *testing.T) {
	s := fixtureStore(t)
	tests := []struct {
		weapon string
		row    int
		want   string
	}{
		{"Arc Blaster", 0, KindArc},
		{"Arc Blaster", 1, KindExplosion},
		{"Orbital Laser", 0, KindBeam},
		{"Flamethrower", 0, KindSpray},
		{"Spear", 0, ""},
	}
	for _, tt := range tests {
		g, _ := s.Group(tt.weapon)
		if got := ClassifyAttack(g.Rows[tt.row], s.Roles()); got != tt.want {
			t.Errorf("ClassifyAttack(%s[%d]) = %q, want %q", tt.weapon, tt.row, got, tt.want)
		}
	}
}
