// Package weapons holds the weapon sheet: rows grouped by weapon name, the column
// roles inferred from the headers, and the indices used to filter and sort groups.
package weapons

import (
	"errors"
	"strings"

	"github.com/pefman/hd2-armory/internal/models"
)

// ErrEmptyDataset is returned when an ingest has no header row or no non-blank rows.
var ErrEmptyDataset = errors.New("empty dataset")

// Dataset is a parsed sheet that has not been committed to a Store yet.
type Dataset struct {
	Headers  []string
	Roles    models.ColumnRoles
	Groups   []*models.WeaponGroup
	RowCount int
}

// Store is the single owner of the current weapon dataset and its indices.
// It is not safe for concurrent use; callers that share one must guard it.
type Store struct {
	headers  []string
	roles    models.ColumnRoles
	groups   []*models.WeaponGroup
	byName   map[string]*models.WeaponGroup
	rowCount int

	categoryIndex map[string][]*models.WeaponGroup
	subIndex      map[string][]*models.WeaponGroup
	searchIndex   map[*models.WeaponGroup]string
}

func NewStore() *Store {
	return &Store{
		byName:        map[string]*models.WeaponGroup{},
		categoryIndex: map[string][]*models.WeaponGroup{},
		subIndex:      map[string][]*models.WeaponGroup{},
		searchIndex:   map[*models.WeaponGroup]string{},
	}
}

// Parse groups rows by the resolved name column. Blank rows are dropped.
func Parse(headers []string, rows []models.AttackRow) (*Dataset, error) {
	if len(headers) == 0 {
		return nil, ErrEmptyDataset
	}
	kept := make([]models.AttackRow, 0, len(rows))
	for _, r := range rows {
		if !r.IsBlank() {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil, ErrEmptyDataset
	}

	roles := ResolveRoles(headers)
	byName := map[string]*models.WeaponGroup{}
	var groups []*models.WeaponGroup
	for _, r := range kept {
		name := r.Get(roles.Name).String()
		g, ok := byName[name]
		if !ok {
			g = &models.WeaponGroup{Name: name, Index: len(groups)}
			byName[name] = g
			groups = append(groups, g)
		}
		g.Rows = append(g.Rows, r)
	}
	for _, g := range groups {
		g.Type = firstValue(g.Rows, roles.Type)
		g.Sub = firstValue(g.Rows, roles.Sub)
		g.Code = firstValue(g.Rows, roles.Code)
	}
	return &Dataset{
		Headers:  append([]string(nil), headers...),
		Roles:    roles,
		Groups:   groups,
		RowCount: len(kept),
	}, nil
}

// firstValue is the first non-empty trimmed value of col in row order.
func firstValue(rows []models.AttackRow, col string) string {
	if col == "" {
		return ""
	}
	for _, r := range rows {
		if v := strings.TrimSpace(r.Get(col).String()); v != "" {
			return v
		}
	}
	return ""
}

// Commit replaces the store's dataset. Indices are stale until RebuildIndices runs.
func (s *Store) Commit(ds *Dataset) {
	s.headers = ds.Headers
	s.roles = ds.Roles
	s.groups = ds.Groups
	s.rowCount = ds.RowCount
	s.byName = make(map[string]*models.WeaponGroup, len(ds.Groups))
	for _, g := range ds.Groups {
		s.byName[g.Name] = g
	}
}

// Ingest parses, commits and reindexes. On error the previous dataset is kept.
func (s *Store) Ingest(headers []string, rows []models.AttackRow) error {
	ds, err := Parse(headers, rows)
	if err != nil {
		return err
	}
	s.Commit(ds)
	s.RebuildIndices()
	return nil
}

// IngestMatrix treats the first row as headers and the rest as data.
func (s *Store) IngestMatrix(matrix [][]string) error {
	if len(matrix) == 0 {
		return ErrEmptyDataset
	}
	headers := make([]string, len(matrix[0]))
	for i, h := range matrix[0] {
		headers[i] = strings.TrimSpace(h)
	}
	rows := make([]models.AttackRow, 0, len(matrix)-1)
	for _, rec := range matrix[1:] {
		cells := make([]models.Cell, len(rec))
		for i, v := range rec {
			cells[i] = models.Text(v)
		}
		rows = append(rows, models.NewAttackRow(headers, cells))
	}
	return s.Ingest(headers, rows)
}

func (s *Store) Headers() []string         { return append([]string(nil), s.headers...) }
func (s *Store) Roles() models.ColumnRoles { return s.roles }
func (s *Store) RowCount() int             { return s.rowCount }
func (s *Store) Len() int                  { return len(s.groups) }

// Groups returns every group in creation order.
func (s *Store) Groups() []*models.WeaponGroup {
	return append([]*models.WeaponGroup(nil), s.groups...)
}

// Group looks a weapon up by name.
func (s *Store) Group(name string) (*models.WeaponGroup, bool) {
	g, ok := s.byName[name]
	return g, ok
}
