package server

import (
	"fmt"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"

	"github.com/pefman/hd2-armory/internal/enemies"
	"github.com/pefman/hd2-armory/internal/hub"
	"github.com/pefman/hd2-armory/internal/models"
)

type EnemyFilter struct {
	Factions []string `json:"faction"`
	Query    string   `json:"q"`
	Sort     string   `json:"sort"` // zone field key
	Dir      string   `json:"dir"`
}

type enemiesView struct {
	Active bool                `json:"active"`
	Count  int                 `json:"count"`
	Units  []*models.EnemyUnit `json:"units"`
}

func enemyFilterFrom(q url.Values) EnemyFilter {
	return EnemyFilter{
		Factions: listParam(q, "faction"),
		Query:    q.Get("q"),
		Sort:     q.Get("sort"),
		Dir:      q.Get("dir"),
	}
}

func viewEnemies(roster *enemies.Roster, f EnemyFilter) enemiesView {
	res := roster.Filter(f.Factions, f.Query)
	units := roster.Visible(res)
	if f.Sort != "" {
		units = enemies.SortUnitZones(units, f.Sort, models.ParseDirection(f.Dir))
	}
	if units == nil {
		units = []*models.EnemyUnit{}
	}
	return enemiesView{Active: res.Active, Count: len(units), Units: units}
}

func (s *Server) handleEnemies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, viewEnemies(s.cat.Snapshot().Enemies, enemyFilterFrom(r.URL.Query())))
}

func (s *Server) wsEnemies(data json.RawMessage) (hub.Message, error) {
	var f EnemyFilter
	if len(data) > 0 {
		if err := json.Unmarshal(data, &f); err != nil {
			return hub.Message{}, fmt.Errorf("bad enemy filter: %w", err)
		}
	}
	return hub.Message{Type: "enemies", Data: viewEnemies(s.cat.Snapshot().Enemies, f)}, nil
}

func (s *Server) handleFactions(w http.ResponseWriter, r *http.Request) {
	f := s.cat.Snapshot().Enemies.Factions()
	if f == nil {
		f = []string{}
	}
	writeJSON(w, f)
}

func (s *Server) handleUnit(w http.ResponseWriter, r *http.Request) {
	faction, unit := pathVar(r, "faction"), pathVar(r, "unit")
	u, ok := s.cat.Snapshot().Enemies.Unit(faction, unit)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unit %s/%s not found", faction, unit))
		return
	}
	writeJSON(w, u)
}
