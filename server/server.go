// Package server exposes spatial queries over HTTP.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/eak1mov/go-libworld/grid"
	"github.com/eak1mov/go-libworld/world"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Source provides the model to answer queries against. It is asked once per
// request, so a reloading source swaps models between requests.
type Source interface {
	Current() *world.LevelModel
}

// Static is a Source that never changes.
type Static struct {
	Model *world.LevelModel
}

func (s Static) Current() *world.LevelModel {
	return s.Model
}

type routerOptions struct {
	logger *slog.Logger
}

type Option func(*routerOptions)

func WithLogger(logger *slog.Logger) Option {
	return func(o *routerOptions) {
		o.logger = logger
	}
}

type handler struct {
	source Source
	logger *slog.Logger
}

type roomInfo struct {
	DisplayName string    `json:"display_name"`
	WorldPos    grid.Pos  `json:"world_pos"`
	Size        grid.Size `json:"size"`
	Tiles       int       `json:"tiles"`
	Lights      int       `json:"lights"`
}

// NewRouter returns the query API:
//
//	GET /api/health
//	GET /api/rooms
//	GET /api/floor/{x}/{y}
//	GET /api/tile/{x}/{y}
func NewRouter(source Source, opts ...Option) http.Handler {
	options := routerOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&options)
	}
	h := &handler{source: source, logger: options.logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/rooms", h.rooms)
		r.Get("/floor/{x}/{y}", h.floor)
		r.Get("/tile/{x}/{y}", h.tile)
	})
	return r
}

func (h *handler) rooms(w http.ResponseWriter, r *http.Request) {
	model := h.source.Current()
	rooms := make([]roomInfo, 0, len(model.Rooms))
	for i := range model.Rooms {
		room := &model.Rooms[i]
		rooms = append(rooms, roomInfo{
			DisplayName: room.DisplayName,
			WorldPos:    room.WorldPos,
			Size:        room.Size,
			Tiles:       room.TileCount(),
			Lights:      len(room.Lights),
		})
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"spawn_point": model.SpawnPoint,
		"rooms":       rooms,
	})
}

func (h *handler) floor(w http.ResponseWriter, r *http.Request) {
	pos, ok := h.parsePos(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"floor": h.source.Current().ContainsFloor(pos)})
}

func (h *handler) tile(w http.ResponseWriter, r *http.Request) {
	pos, ok := h.parsePos(w, r)
	if !ok {
		return
	}
	var tile *world.TileType
	if t, ok := h.source.Current().TileAt(pos); ok {
		tile = &t
	}
	h.respondJSON(w, http.StatusOK, map[string]*world.TileType{"tile": tile})
}

func (h *handler) parsePos(w http.ResponseWriter, r *http.Request) (grid.Pos, bool) {
	var pos grid.Pos
	for _, c := range []struct {
		name string
		dst  *int32
	}{
		{"x", &pos.X},
		{"y", &pos.Y},
	} {
		v, err := strconv.ParseInt(chi.URLParam(r, c.name), 10, 32)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid "+c.name+" coordinate")
			return grid.Pos{}, false
		}
		*c.dst = int32(v)
	}
	return pos, true
}

func (h *handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("libworld: encode response", "error", err)
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
