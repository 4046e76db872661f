package weapons

import (
	"reflect"
	"testing"

	"github.com/pefman/hd2-armory/internal/models"
)

func TestGuessIsNumericColumn(t *testing.T) {
	s := fixtureStore(t)
	tests := []struct {
		col  string
		want bool
	}{
		{"DMG", true},
		{"DUR", true},
		{"AP", true},
		{"Name", false},
		{"Atk Type", false},
		{"Missing", false},
	}
	for _, tt := range tests {
		if got := s.GuessIsNumericColumn(tt.col); got != tt.want {
			t.Errorf("GuessIsNumericColumn(%q) = %v, want %v", tt.col, got, tt.want)
		}
	}
}

func TestGuessIsNumericColumnThreshold(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   bool
	}{
		{"two numbers", []string{"1", "2"}, false},
		{"three of five", []string{"1", "2", "3", "x", "y"}, true},
		{"three of six", []string{"1", "2", "3", "x", "y", "z"}, false},
		{"blanks ignored", []string{"1", "", "2", " ", "3", "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := [][]string{{"Name", "V"}}
			for i, v := range tt.values {
				m = append(m, []string{string(rune('a' + i)), v})
			}
			s := NewStore()
			if err := s.IngestMatrix(m); err != nil {
				t.Fatal(err)
			}
			if got := s.GuessIsNumericColumn("V"); got != tt.want {
				t.Errorf("GuessIsNumericColumn = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortGroups(t *testing.T) {
	s := fixtureStore(t)
	tests := []struct {
		col  string
		dir  models.Direction
		want []string
	}{
		{"DMG", models.Desc, []string{"Orbital Laser", "GL-6 Frag", "Spear", "Grenade Pistol", "Arc Blaster", "Flamethrower"}},
		{"DMG", models.Asc, []string{"Flamethrower", "Arc Blaster", "Grenade Pistol", "Spear", "GL-6 Frag", "Orbital Laser"}},
		{"AP", models.Asc, []string{"Orbital Laser", "Flamethrower", "Arc Blaster", "Grenade Pistol", "GL-6 Frag", "Spear"}},
		{"AP", models.Desc, []string{"Spear", "GL-6 Frag", "Grenade Pistol", "Arc Blaster", "Orbital Laser", "Flamethrower"}},
		{"Name", models.Asc, []string{"Arc Blaster", "Flamethrower", "GL-6 Frag", "Grenade Pistol", "Orbital Laser", "Spear"}},
		{"Code", models.Desc, []string{"Spear", "Orbital Laser", "Grenade Pistol", "GL-6 Frag", "Flamethrower", "Arc Blaster"}},
		{"", models.Asc, []string{"Arc Blaster", "Grenade Pistol", "GL-6 Frag", "Orbital Laser", "Spear", "Flamethrower"}},
	}
	for _, tt := range tests {
		in := s.Groups()
		got := groupNames(s.SortGroups(in, tt.col, tt.dir))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SortGroups(%q, %s) = %q, want %q", tt.col, tt.dir, got, tt.want)
		}
		if in[0].Name != "Arc Blaster" {
			t.Errorf("SortGroups modified its input")
		}
	}
}
