package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/eak1mov/go-libworld/internal"
	"github.com/eak1mov/go-libworld/server"
	"github.com/eak1mov/go-libworld/world"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, handler http.Handler, target string) (int, map[string]any) {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func TestRouter(t *testing.T) {
	router := server.NewRouter(server.Static{Model: internal.ScenarioModel()})

	for _, tc := range []struct {
		target string
		status int
		body   map[string]any
	}{
		{"/api/health", http.StatusOK, map[string]any{"status": "ok"}},
		{"/api/floor/1/1", http.StatusOK, map[string]any{"floor": true}},
		{"/api/floor/2/2", http.StatusOK, map[string]any{"floor": false}},
		{"/api/floor/-1/1", http.StatusOK, map[string]any{"floor": false}},
		{"/api/tile/1/1", http.StatusOK, map[string]any{"tile": "roof"}},
		{"/api/tile/3/3", http.StatusOK, map[string]any{"tile": nil}},
		{"/api/tile/2147483647/-2147483648", http.StatusOK, map[string]any{"tile": nil}},
		{"/api/floor/a/1", http.StatusBadRequest, map[string]any{"error": "invalid x coordinate"}},
		{"/api/tile/1/1.5", http.StatusBadRequest, map[string]any{"error": "invalid y coordinate"}},
		{"/api/tile/2147483648/0", http.StatusBadRequest, map[string]any{"error": "invalid x coordinate"}},
	} {
		t.Run(tc.target, func(t *testing.T) {
			status, body := get(t, router, tc.target)
			require.Equal(t, tc.status, status)
			if diff := cmp.Diff(tc.body, body); diff != "" {
				t.Errorf("body mismatch (-want+got):\n%v", diff)
			}
		})
	}
}

func TestRouterRooms(t *testing.T) {
	router := server.NewRouter(server.Static{Model: internal.RichModel()})
	status, body := get(t, router, "/api/rooms")
	require.Equal(t, http.StatusOK, status)

	require.Equal(t, map[string]any{"x": float64(-3), "y": float64(7)}, body["spawn_point"])
	rooms := body["rooms"].([]any)
	require.Len(t, rooms, 3)
	require.Equal(t, map[string]any{
		"display_name": "Hall",
		"world_pos":    map[string]any{"x": float64(-20), "y": float64(0)},
		"size":         map[string]any{"w": float64(20), "h": float64(20)},
		"tiles":        float64(45),
		"lights":       float64(2),
	}, rooms[0])
}

type swapSource struct {
	model atomic.Pointer[world.LevelModel]
}

func (s *swapSource) Current() *world.LevelModel {
	return s.model.Load()
}

func TestRouterFollowsSource(t *testing.T) {
	source := &swapSource{}
	source.model.Store(internal.ScenarioModel())
	router := server.NewRouter(source)

	_, body := get(t, router, "/api/floor/1/1")
	require.Equal(t, true, body["floor"])

	source.model.Store(&world.LevelModel{})
	_, body = get(t, router, "/api/floor/1/1")
	require.Equal(t, false, body["floor"])
}
