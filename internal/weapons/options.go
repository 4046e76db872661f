package weapons

import (
	"sort"
	"strings"

	"github.com/pefman/hd2-armory/internal/models"
)

// TypeOrder is the display order for weapon categories.
var TypeOrder = []string{"primary", "secondary", "grenade", "support", "stratagem"}

// defaultActiveTypes are pre-selected when the category chips are first built.
var defaultActiveTypes = map[string]bool{"primary": true}

// Chip is one toggleable filter value.
type Chip struct {
	Value  string `json:"value"` // lowercased index key
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// TypeChips lists the known categories present in the data, in TypeOrder.
func (s *Store) TypeChips() []Chip {
	var out []Chip
	for _, t := range TypeOrder {
		if _, ok := s.categoryIndex[t]; !ok {
			continue
		}
		out = append(out, Chip{Value: t, Label: strings.ToUpper(t[:1]) + t[1:], Active: defaultActiveTypes[t]})
	}
	return out
}

// SubChips lists every sub-category present, alphabetically, none active.
func (s *Store) SubChips() []Chip {
	var out []Chip
	for _, k := range s.SubKeys() {
		out = append(out, Chip{Value: k, Label: strings.ToUpper(k)})
	}
	return out
}

// WeaponOption is an entry of the calculator's weapon picker.
type WeaponOption struct {
	Name  string              `json:"name"`
	Type  string              `json:"type,omitempty"`
	Sub   string              `json:"sub,omitempty"`
	Code  string              `json:"code,omitempty"`
	Label string              `json:"label"`
	Group *models.WeaponGroup `json:"-"`
}

func typeRank(t string) int {
	t = strings.ToLower(t)
	for i, o := range TypeOrder {
		if o == t {
			return i
		}
	}
	return -1
}

// CalculatorOptions orders groups by TypeOrder (unknown types last), then by code.
func (s *Store) CalculatorOptions() []WeaponOption {
	out := make([]WeaponOption, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, WeaponOption{
			Name:  g.Name,
			Type:  g.Type,
			Sub:   g.Sub,
			Code:  g.Code,
			Label: optionLabel(g),
			Group: g,
		})
	}
	cl := models.NewCollator()
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := typeRank(out[i].Type), typeRank(out[j].Type)
		if ri != rj {
			if ri == -1 {
				return false
			}
			if rj == -1 {
				return true
			}
			return ri < rj
		}
		return cl.CompareString(out[i].Code, out[j].Code) < 0
	})
	return out
}

// SearchOptions filters CalculatorOptions by a substring of "type sub code name".
func (s *Store) SearchOptions(query string) []WeaponOption {
	q := strings.ToLower(query)
	var out []WeaponOption
	for _, o := range s.CalculatorOptions() {
		hay := strings.ToLower(o.Type + " " + o.Sub + " " + o.Code + " " + o.Name)
		if strings.Contains(hay, q) {
			out = append(out, o)
		}
	}
	return out
}

func optionLabel(g *models.WeaponGroup) string {
	var b strings.Builder
	b.WriteString("[" + g.Type + "]")
	if g.Sub != "" {
		b.WriteString("[" + g.Sub + "]")
	}
	b.WriteString(g.Code + " " + g.Name)
	return b.String()
}

// Attack kinds recognised by ClassifyAttack.
const (
	KindExplosion = "explosion"
	KindBeam      = "beam"
	KindArc       = "arc"
	KindSpray     = "spray"
)

// ClassifyAttack buckets a row by its attack type column, falling back to "Stage".
func ClassifyAttack(row models.AttackRow, roles models.ColumnRoles) string {
	raw := ""
	if roles.AttackType != "" {
		raw = row.Get(roles.AttackType).String()
	}
	if raw == "" {
		raw = row.Get("Stage").String()
	}
	v := strings.ToLower(raw)
	for _, k := range []string{KindExplosion, KindBeam, KindArc, KindSpray} {
		if strings.Contains(v, k) {
			return k
		}
	}
	return ""
}
