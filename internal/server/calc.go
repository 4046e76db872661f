package server

import (
	"bytes"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/pefman/hd2-armory/internal/export"
	"github.com/pefman/hd2-armory/internal/game"
)

// CalcRequest selects a weapon, a target unit and zone, and the attack rows to fire.
// ZoneName, when set, overrides the zone index.
type CalcRequest struct {
	Weapon   string `json:"weapon"`
	Faction  string `json:"faction"`
	Unit     string `json:"unit"`
	ZoneName string `json:"zone_name,omitempty"`
	game.Selection
}

// calcError carries the HTTP status for a rejected calculation.
type calcError struct {
	code int
	msg  string
}

func (e *calcError) Error() string { return e.msg }

func (s *Server) compute(r *http.Request) (*game.Result, error) {
	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &calcError{http.StatusBadRequest, "invalid JSON body: " + err.Error()}
	}
	snap := s.cat.Snapshot()
	g, ok := snap.Weapons.Group(req.Weapon)
	if !ok {
		return nil, &calcError{http.StatusNotFound, fmt.Sprintf("weapon %q not found", req.Weapon)}
	}
	u, ok := snap.Enemies.Unit(req.Faction, req.Unit)
	if !ok {
		return nil, &calcError{http.StatusNotFound, fmt.Sprintf("unit %s/%s not found", req.Faction, req.Unit)}
	}
	if req.ZoneName != "" {
		req.ZoneIndex = -1
		for i, z := range u.Zones {
			if z.ZoneName == req.ZoneName {
				req.ZoneIndex = i
				break
			}
		}
	}
	res := game.ComputeDamage(g, u, req.Selection, game.ColumnsFor(snap.Weapons.Roles()))
	if res == nil {
		return nil, &calcError{http.StatusUnprocessableEntity, "select a valid zone and at least one attack row"}
	}
	s.stats.Record(res)
	return res, nil
}

func (s *Server) writeCalcError(w http.ResponseWriter, err error) {
	if ce, ok := err.(*calcError); ok {
		writeError(w, ce.code, ce.msg)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) handleCalc(w http.ResponseWriter, r *http.Request) {
	res, err := s.compute(r)
	if err != nil {
		s.writeCalcError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleCalcExport(w http.ResponseWriter, r *http.Request) {
	res, err := s.compute(r)
	if err != nil {
		s.writeCalcError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.DamageXLSX(&buf, res); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeXLSX(w, "damage.xlsx", buf.Bytes())
}
