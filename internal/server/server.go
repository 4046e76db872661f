// Package server exposes the catalog, calculator and websocket hub over HTTP.
package server

import (
	"bufio"
	"bytes"
	"errors"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pefman/hd2-armory/internal/catalog"
	"github.com/pefman/hd2-armory/internal/hub"
	"github.com/pefman/hd2-armory/internal/stats"
)

type Options struct {
	StaticDir      string
	MaxUploadBytes int64
}

type Server struct {
	log   *zap.Logger
	cat   *catalog.Catalog
	hub   *hub.Hub
	stats *stats.Tracker
	opts  Options
}

// New wires the hub to the catalog: dataset swaps are broadcast and live filter
// messages are answered from the current snapshot.
func New(cat *catalog.Catalog, h *hub.Hub, tr *stats.Tracker, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	s := &Server{log: log, cat: cat, hub: h, stats: tr, opts: opts}
	cat.Subscribe(func(ev catalog.Event) {
		h.Broadcast(hub.Message{Type: "dataset", Data: ev})
	})
	h.Handle("filter", s.wsFilter)
	h.Handle("enemies", s.wsEnemies)
	return s
}

// Handler returns the routed, logged and CORS-enabled handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	// Match on the escaped path so names containing '/' survive as one variable.
	r.UseEncodedPath()

	r.HandleFunc("/api/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/reload", s.handleReload).Methods(http.MethodPost)

	r.HandleFunc("/api/weapons", s.handleWeapons).Methods(http.MethodGet)
	r.HandleFunc("/api/weapons/columns", s.handleColumns).Methods(http.MethodGet)
	r.HandleFunc("/api/weapons/chips", s.handleChips).Methods(http.MethodGet)
	r.HandleFunc("/api/weapons/options", s.handleOptions).Methods(http.MethodGet)
	r.HandleFunc("/api/weapons/export.xlsx", s.handleWeaponsExport).Methods(http.MethodGet)
	r.HandleFunc("/api/weapons/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/api/weapons/{name}", s.handleWeapon).Methods(http.MethodGet).MatcherFunc(notReservedWeaponPath)
	r.HandleFunc("/api/weapon", s.handleWeapon).Methods(http.MethodGet).Queries("name", "{name}")

	r.HandleFunc("/api/enemies", s.handleEnemies).Methods(http.MethodGet)
	r.HandleFunc("/api/enemies/factions", s.handleFactions).Methods(http.MethodGet)
	r.HandleFunc("/api/enemies/{faction}/{unit}", s.handleUnit).Methods(http.MethodGet)

	r.HandleFunc("/api/calc", s.handleCalc).Methods(http.MethodPost)
	r.HandleFunc("/api/calc/export.xlsx", s.handleCalcExport).Methods(http.MethodPost)
	r.HandleFunc("/api/stats/today", s.handleStatsToday).Methods(http.MethodGet)

	r.HandleFunc("/ws", s.hub.ServeWS)
	if s.opts.StaticDir != "" {
		r.PathPrefix("/").MatcherFunc(outsideAPI).Handler(http.FileServer(http.Dir(s.opts.StaticDir)))
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "unsupported path")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, r.Method+" not allowed")
	})
	return withCORS(s.withRequestLog(r))
}

// reservedWeaponPaths are fixed routes under /api/weapons/. Weapons with these
// names are reachable through /api/weapon?name=.
var reservedWeaponPaths = map[string]bool{
	"columns":     true,
	"chips":       true,
	"options":     true,
	"export.xlsx": true,
	"upload":      true,
}

func notReservedWeaponPath(r *http.Request, _ *mux.RouteMatch) bool {
	return !reservedWeaponPaths[path.Base(r.URL.EscapedPath())]
}

// outsideAPI keeps the static file server from answering API paths, so a wrong
// method on an API route still yields 405.
func outsideAPI(r *http.Request, _ *mux.RouteMatch) bool {
	p := r.URL.Path
	return p != "/api" && !strings.HasPrefix(p, "/api/")
}

// pathVar returns an unescaped route variable. Routes match on the escaped path,
// so mux hands variables back still encoded.
func pathVar(r *http.Request, key string) string {
	v := mux.Vars(r)[key]
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.cat.Snapshot()
	writeJSON(w, map[string]any{
		"status":  "ok",
		"version": snap.Version,
		"weapons": snap.Weapons.Len(),
		"units":   snap.Enemies.Len(),
		"clients": s.hub.Count(),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	ev, err := s.cat.Reload(r.Context(), true)
	if err != nil && ev.Version == 0 {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	out := map[string]any{"event": ev}
	if err != nil {
		out["warning"] = err.Error()
	}
	writeJSON(w, out)
}

func (s *Server) handleStatsToday(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.stats.Today())
}

func writeJSON(w http.ResponseWriter, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		writeError(w, http.StatusInternalServerError, "encode response: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter records the response status. It forwards Hijack so websocket
// upgrades still work behind the logger.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := sw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	sw.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)
		s.log.Info("http request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}
