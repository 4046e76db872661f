package models

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/pefman/hd2-armory/internal/numparse"
)

// ========================= Cells =========================
// Sheet cells are loosely typed: parsers hand us strings, fixtures hand us numbers.

type CellKind uint8

const (
	CellNull CellKind = iota
	CellString
	CellNumber
	CellBool
)

type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Bool bool
}

func Null() Cell                  { return Cell{} }
func Text(s string) Cell          { return Cell{Kind: CellString, Str: s} }
func Number(f float64) Cell       { return Cell{Kind: CellNumber, Num: f} }
func Boolean(b bool) Cell         { return Cell{Kind: CellBool, Bool: b} }
func (c Cell) IsNull() bool       { return c.Kind == CellNull }
func (c Cell) IsNumberKind() bool { return c.Kind == CellNumber }

// String renders the cell as display text. Null renders as "".
func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return formatNumber(c.Num)
	case CellBool:
		return strconv.FormatBool(c.Bool)
	}
	return ""
}

// IsBlank is true for null cells and whitespace-only text.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case CellNull:
		return true
	case CellString:
		return strings.TrimSpace(c.Str) == ""
	}
	return false
}

// Float returns the cell as a number when the whole cell is numeric.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Num, !math.IsNaN(c.Num)
	case CellString:
		return numparse.Strict(c.Str)
	}
	return 0, false
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellString:
		return json.Marshal(c.Str)
	case CellNumber:
		if math.IsInf(c.Num, 0) || math.IsNaN(c.Num) {
			return json.Marshal(formatNumber(c.Num))
		}
		return json.Marshal(c.Num)
	case CellBool:
		return json.Marshal(c.Bool)
	}
	return []byte("null"), nil
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*c = Null()
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Text(s)
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*c = Boolean(v)
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return err
		}
		*c = Number(f)
	}
	return nil
}

// ========================= Weapons =========================

// AttackRow is one row of the weapon sheet: column name -> cell, in header order.
type AttackRow struct {
	keys  []string
	cells map[string]Cell
}

// NewAttackRow pairs headers with cells. Missing trailing cells are null; when a header
// repeats, the later cell wins but the column keeps its first position.
func NewAttackRow(headers []string, cells []Cell) AttackRow {
	r := AttackRow{keys: make([]string, 0, len(headers)), cells: make(map[string]Cell, len(headers))}
	for i, h := range headers {
		c := Null()
		if i < len(cells) {
			c = cells[i]
		}
		r.Set(h, c)
	}
	return r
}

func (r *AttackRow) Set(col string, c Cell) {
	if r.cells == nil {
		r.cells = map[string]Cell{}
	}
	if _, ok := r.cells[col]; !ok {
		r.keys = append(r.keys, col)
	}
	r.cells[col] = c
}

func (r AttackRow) Get(col string) Cell { return r.cells[col] }

func (r AttackRow) Has(col string) bool {
	_, ok := r.cells[col]
	return ok
}

func (r AttackRow) Columns() []string { return append([]string(nil), r.keys...) }

func (r AttackRow) Values() []Cell {
	out := make([]Cell, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.cells[k])
	}
	return out
}

func (r AttackRow) Len() int { return len(r.keys) }

// IsBlank is true when every cell is null or whitespace.
func (r AttackRow) IsBlank() bool {
	for _, k := range r.keys {
		if !r.cells[k].IsBlank() {
			return false
		}
	}
	return true
}

func (r AttackRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := r.cells[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WeaponGroup is every attack row sharing a weapon name.
type WeaponGroup struct {
	Name  string      `json:"name"`
	Type  string      `json:"type,omitempty"`
	Sub   string      `json:"sub,omitempty"`
	Code  string      `json:"code,omitempty"`
	Rows  []AttackRow `json:"rows"`
	Index int         `json:"index"` // creation order within the dataset
}

// ColumnRoles maps semantic roles to the sheet's actual headers ("" = unresolved).
type ColumnRoles struct {
	Type             string `json:"type,omitempty"`
	Sub              string `json:"sub,omitempty"`
	Name             string `json:"name,omitempty"`
	Code             string `json:"code,omitempty"`
	AttackType       string `json:"attack_type,omitempty"`
	AttackName       string `json:"attack_name,omitempty"`
	Damage           string `json:"damage,omitempty"`
	Duration         string `json:"duration,omitempty"`
	ArmorPenetration string `json:"armor_penetration,omitempty"`
}

// ========================= Enemies =========================

// ExplosionMultiplier is a zone's factor for explosive attacks, or immunity.
type ExplosionMultiplier struct {
	Immune bool
	Value  float64
}

// ImmuneMarker is how the enemy document spells explosion immunity.
const ImmuneMarker = "-"

func (m ExplosionMultiplier) MarshalJSON() ([]byte, error) {
	if m.Immune {
		return json.Marshal(ImmuneMarker)
	}
	return json.Marshal(m.Value)
}

// ZoneField is one raw key/value pair of a zone as it appeared in the document.
type ZoneField struct {
	Key   string `json:"key"`
	Value Cell   `json:"value"`
}

type EnemyZone struct {
	ZoneName            string              `json:"zone_name"`
	Health              float64             `json:"health"` // -1 = indestructible
	Constitution        float64             `json:"Con"`
	DurabilityFraction  float64             `json:"Dur%"`
	ArmorValue          int                 `json:"AV"`
	IsFatal             bool                `json:"IsFatal"`
	ExplosionTarget     string              `json:"ExTarget,omitempty"` // "Main" or "Part"
	ExplosionMultiplier ExplosionMultiplier `json:"ExMult"`
	ToMainFraction      float64             `json:"ToMain%"`
	MainCapped          bool                `json:"MainCap"`
	// Fields keeps the document's own key order for search and sorting.
	Fields []ZoneField `json:"-"`
}

// Indestructible zones report health -1.
func (z EnemyZone) Indestructible() bool { return z.Health < 0 }

// Field returns the raw document value for key, or null.
func (z EnemyZone) Field(key string) Cell {
	for _, f := range z.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return Null()
}

type EnemyUnit struct {
	Faction string      `json:"faction"`
	Name    string      `json:"name"`
	Health  float64     `json:"health"`
	Zones   []EnemyZone `json:"zones"`
}

func (u EnemyUnit) ZoneCount() int { return len(u.Zones) }
