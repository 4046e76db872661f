// Package catalog owns the live weapon and enemy datasets served by the API.
// Datasets are built off-lock and swapped in whole, so a published store is never
// mutated and readers may keep using a snapshot after the lock is released.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pefman/hd2-armory/internal/enemies"
	"github.com/pefman/hd2-armory/internal/weapons"
)

// Source is where Reload fetches data from. *api.Client satisfies it.
type Source interface {
	FetchWeaponsCSV(ctx context.Context) (string, error)
	FetchEnemyData(ctx context.Context) ([]byte, error)
	Invalidate()
}

// Event describes a dataset change.
type Event struct {
	Reason   string    `json:"reason"` // reload, upload or fixture
	Version  uint64    `json:"version"`
	Weapons  int       `json:"weapons"`
	Rows     int       `json:"rows"`
	Units    int       `json:"units"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Snapshot is a consistent view of both datasets.
type Snapshot struct {
	Weapons  *weapons.Store
	Enemies  *enemies.Roster
	Version  uint64
	LoadedAt time.Time
}

type Catalog struct {
	log *zap.Logger
	src Source
	now func() time.Time

	mu       sync.RWMutex
	weapons  *weapons.Store
	enemies  *enemies.Roster
	version  uint64
	loadedAt time.Time

	subMu sync.Mutex
	subs  []func(Event)
}

// New returns an empty catalog. src may be nil when data only arrives by upload
// or fixtures.
func New(src Source, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{
		log:     log,
		src:     src,
		now:     time.Now,
		weapons: weapons.NewStore(),
		enemies: enemies.NewRoster(),
	}
}

// Snapshot returns the current datasets.
func (c *Catalog) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{Weapons: c.weapons, Enemies: c.enemies, Version: c.version, LoadedAt: c.loadedAt}
}

// Subscribe registers fn to be called after every successful swap.
func (c *Catalog) Subscribe(fn func(Event)) {
	c.subMu.Lock()
	c.subs = append(c.subs, fn)
	c.subMu.Unlock()
}

func (c *Catalog) publish(ev Event) {
	c.subMu.Lock()
	subs := append([]func(Event){}, c.subs...)
	c.subMu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// swap installs whichever of w and r is non-nil and notifies subscribers.
func (c *Catalog) swap(reason string, w *weapons.Store, r *enemies.Roster) Event {
	c.mu.Lock()
	if w != nil {
		c.weapons = w
	}
	if r != nil {
		c.enemies = r
	}
	c.version++
	c.loadedAt = c.now()
	ev := Event{
		Reason:   reason,
		Version:  c.version,
		Weapons:  c.weapons.Len(),
		Rows:     c.weapons.RowCount(),
		Units:    c.enemies.Len(),
		LoadedAt: c.loadedAt,
	}
	c.mu.Unlock()

	c.log.Info("catalog: dataset swapped",
		zap.String("reason", reason),
		zap.Uint64("version", ev.Version),
		zap.Int("weapons", ev.Weapons),
		zap.Int("rows", ev.Rows),
		zap.Int("units", ev.Units),
	)
	c.publish(ev)
	return ev
}

// Reload fetches both sources. Each dataset is replaced only when its own fetch
// and parse succeed; failures are joined into the returned error.
func (c *Catalog) Reload(ctx context.Context, force bool) (Event, error) {
	if c.src == nil {
		return Event{}, errors.New("catalog: no source configured")
	}
	if force {
		c.src.Invalidate()
	}

	var errs []error
	var ws *weapons.Store
	if text, err := c.src.FetchWeaponsCSV(ctx); err != nil {
		errs = append(errs, fmt.Errorf("weapons: %w", err))
	} else {
		s := weapons.NewStore()
		if err := s.IngestText(text); err != nil {
			errs = append(errs, fmt.Errorf("weapons: %w", err))
		} else {
			ws = s
		}
	}

	var rs *enemies.Roster
	if doc, err := c.src.FetchEnemyData(ctx); err != nil {
		errs = append(errs, fmt.Errorf("enemies: %w", err))
	} else {
		r := enemies.NewRoster()
		if err := r.Load(doc); err != nil {
			errs = append(errs, fmt.Errorf("enemies: %w", err))
		} else {
			rs = r
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		c.log.Warn("catalog: reload incomplete", zap.Error(err))
	}
	if ws == nil && rs == nil {
		return Event{}, err
	}
	return c.swap("reload", ws, rs), err
}

// xlsxMagic is the zip local file header every XLSX workbook starts with.
var xlsxMagic = []byte("PK\x03\x04")

// IsXLSX reports whether an upload should be read as a workbook.
func IsXLSX(body []byte, contentType string) bool {
	if strings.Contains(contentType, "spreadsheetml") {
		return true
	}
	return bytes.HasPrefix(body, xlsxMagic)
}

// UploadWeapons replaces the weapon dataset with an uploaded CSV, TSV or XLSX body.
func (c *Catalog) UploadWeapons(body []byte, contentType string) (Event, error) {
	s := weapons.NewStore()
	var err error
	if IsXLSX(body, contentType) {
		err = s.IngestXLSX(bytes.NewReader(body))
	} else {
		err = s.IngestText(string(body))
	}
	if err != nil {
		c.log.Warn("catalog: upload rejected", zap.Int("bytes", len(body)), zap.Error(err))
		return Event{}, err
	}
	return c.swap("upload", s, nil), nil
}

// LoadFixtures installs the built-in weapon and enemy fixtures.
func (c *Catalog) LoadFixtures() (Event, error) {
	s := weapons.NewStore()
	if err := s.LoadFixture(); err != nil {
		return Event{}, fmt.Errorf("weapon fixture: %w", err)
	}
	r := enemies.NewRoster()
	if err := r.LoadFixture(); err != nil {
		return Event{}, fmt.Errorf("enemy fixture: %w", err)
	}
	return c.swap("fixture", s, r), nil
}
