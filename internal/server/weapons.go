package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/pefman/hd2-armory/internal/export"
	"github.com/pefman/hd2-armory/internal/hub"
	"github.com/pefman/hd2-armory/internal/models"
	"github.com/pefman/hd2-armory/internal/weapons"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WeaponFilter is the weapon table state shared by the HTTP listing, the export
// and the websocket "filter" message.
type WeaponFilter struct {
	Types []string `json:"type"`
	Subs  []string `json:"sub"`
	Query string   `json:"q"`
	Pins  []string `json:"pin"`
	Sort  string   `json:"sort"`
	Dir   string   `json:"dir"`
}

type weaponsView struct {
	Active bool                  `json:"active"`
	Count  int                   `json:"count"`
	Total  int                   `json:"total"`
	Sort   string                `json:"sort,omitempty"`
	Dir    string                `json:"dir"`
	Groups []*models.WeaponGroup `json:"groups"`
}

// listParam collects repeated and comma-separated values of key.
func listParam(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func weaponFilterFrom(q url.Values) WeaponFilter {
	return WeaponFilter{
		Types: listParam(q, "type"),
		Subs:  listParam(q, "sub"),
		Query: q.Get("q"),
		Pins:  listParam(q, "pin"),
		Sort:  q.Get("sort"),
		Dir:   q.Get("dir"),
	}
}

func viewWeapons(store *weapons.Store, f WeaponFilter) weaponsView {
	res := store.ApplyFilters(f.Types, f.Subs, f.Query, weapons.Pins(f.Pins...))
	dir := models.ParseDirection(f.Dir)
	groups := store.SortGroups(store.Visible(res), f.Sort, dir)
	return weaponsView{
		Active: res.Active,
		Count:  len(groups),
		Total:  store.Len(),
		Sort:   f.Sort,
		Dir:    dir.String(),
		Groups: groups,
	}
}

func (s *Server) handleWeapons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, viewWeapons(s.cat.Snapshot().Weapons, weaponFilterFrom(r.URL.Query())))
}

func (s *Server) wsFilter(data json.RawMessage) (hub.Message, error) {
	var f WeaponFilter
	if len(data) > 0 {
		if err := json.Unmarshal(data, &f); err != nil {
			return hub.Message{}, fmt.Errorf("bad filter: %w", err)
		}
	}
	return hub.Message{Type: "weapons", Data: viewWeapons(s.cat.Snapshot().Weapons, f)}, nil
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	store := s.cat.Snapshot().Weapons
	headers := store.Headers()
	numeric := make(map[string]bool, len(headers))
	for _, h := range headers {
		numeric[h] = store.GuessIsNumericColumn(h)
	}
	writeJSON(w, map[string]any{
		"headers": headers,
		"roles":   store.Roles(),
		"numeric": numeric,
	})
}

func (s *Server) handleChips(w http.ResponseWriter, r *http.Request) {
	store := s.cat.Snapshot().Weapons
	types, subs := store.TypeChips(), store.SubChips()
	if types == nil {
		types = []weapons.Chip{}
	}
	if subs == nil {
		subs = []weapons.Chip{}
	}
	writeJSON(w, map[string]any{"types": types, "subs": subs})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts := s.cat.Snapshot().Weapons.SearchOptions(r.URL.Query().Get("q"))
	if opts == nil {
		opts = []weapons.WeaponOption{}
	}
	writeJSON(w, opts)
}

type weaponDetail struct {
	*models.WeaponGroup
	Kinds []string `json:"kinds"`
}

func (s *Server) handleWeapon(w http.ResponseWriter, r *http.Request) {
	store := s.cat.Snapshot().Weapons
	name := pathVar(r, "name")
	if q := r.URL.Query(); q.Has("name") {
		name = q.Get("name")
	}
	g, ok := store.Group(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("weapon %q not found", name))
		return
	}
	kinds := make([]string, len(g.Rows))
	for i, row := range g.Rows {
		kinds[i] = weapons.ClassifyAttack(row, store.Roles())
	}
	writeJSON(w, weaponDetail{WeaponGroup: g, Kinds: kinds})
}

func writeXLSX(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(body)
}

func (s *Server) handleWeaponsExport(w http.ResponseWriter, r *http.Request) {
	store := s.cat.Snapshot().Weapons
	view := viewWeapons(store, weaponFilterFrom(r.URL.Query()))
	var buf bytes.Buffer
	if err := export.WeaponsXLSX(&buf, store.Headers(), view.Groups); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeXLSX(w, "weapons.xlsx", buf.Bytes())
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooBig.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ev, err := s.cat.UploadWeapons(body, r.Header.Get("Content-Type"))
	switch {
	case errors.Is(err, weapons.ErrEmptyDataset):
		writeError(w, http.StatusUnprocessableEntity, "upload has no header row or no data rows")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, ev)
}
