// Package stats keeps in-memory calculator statistics for the running process.
package stats

import (
	"sync"
	"time"

	"github.com/pefman/hd2-armory/internal/game"
)

// TopDamage is the strongest calculation of a UTC day.
type TopDamage struct {
	Weapon     string    `json:"weapon"`
	Faction    string    `json:"faction"`
	Unit       string    `json:"unit"`
	Zone       string    `json:"zone"`
	ZoneDamage float64   `json:"zone_damage_per_cycle"`
	MainDamage float64   `json:"main_damage_per_cycle"`
	At         time.Time `json:"at"`
}

// Daily summarises one UTC day.
type Daily struct {
	Date         string     `json:"date"`
	Calculations int        `json:"calculations"`
	Top          *TopDamage `json:"top,omitempty"`
}

// Tracker counts calculations per UTC day and keeps each day's top result.
type Tracker struct {
	mu   sync.Mutex
	now  func() time.Time
	days map[string]*Daily
}

func NewTracker() *Tracker {
	return &Tracker{now: time.Now, days: map[string]*Daily{}}
}

func dateKey(t time.Time) string { return t.UTC().Format("2006-01-02") }

// Record adds a result. A result replaces the day's top when it deals more zone
// damage per cycle, or equal zone damage and more main damage.
func (t *Tracker) Record(res *game.Result) {
	if res == nil {
		return
	}
	at := t.now()
	key := dateKey(at)

	t.mu.Lock()
	defer t.mu.Unlock()
	d := t.days[key]
	if d == nil {
		d = &Daily{Date: key}
		t.days[key] = d
	}
	d.Calculations++
	cand := &TopDamage{
		Weapon:     res.Weapon,
		Faction:    res.Faction,
		Unit:       res.Unit,
		Zone:       res.Zone,
		ZoneDamage: res.TotalZoneDamagePerCycle,
		MainDamage: res.TotalMainDamagePerCycle,
		At:         at,
	}
	if d.Top == nil || cand.ZoneDamage > d.Top.ZoneDamage ||
		(cand.ZoneDamage == d.Top.ZoneDamage && cand.MainDamage > d.Top.MainDamage) {
		d.Top = cand
	}
}

// Today returns a copy of the current day's summary.
func (t *Tracker) Today() Daily {
	key := dateKey(t.now())
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.days[key]
	if !ok {
		return Daily{Date: key}
	}
	out := *d
	if d.Top != nil {
		top := *d.Top
		out.Top = &top
	}
	return out
}

// Reset clears every day.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.days = map[string]*Daily{}
}
