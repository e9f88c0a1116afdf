package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ha1tch/nodeedit/pkg/config"
	"github.com/ha1tch/nodeedit/pkg/diagram"
	"github.com/ha1tch/nodeedit/pkg/render"
)

// server exposes a scene over HTTP. Every handler holds mu, so the scene
// sees one event at a time.
type server struct {
	mu    sync.Mutex
	scene *diagram.Scene
	opts  render.Options
	log   *slog.Logger
}

type nodeResp struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Selected bool      `json:"selected,omitempty"`
}

type connectorResp struct {
	From      uuid.UUID `json:"from"`
	To        uuid.UUID `json:"to"`
	Placement string    `json:"placement"`
}

type stateResp struct {
	Mode     string     `json:"mode"`
	Selected *uuid.UUID `json:"selected,omitempty"`
	Hover    *uuid.UUID `json:"hover,omitempty"`
}

func newServer(scene *diagram.Scene, opts render.Options, logger *slog.Logger) *server {
	return &server{scene: scene, opts: opts, log: logger}
}

func cmdServe(args []string, cfg config.Config) error {
	addr := cfg.Addr
	verbose := false
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-addr", "--addr":
			if i+1 >= len(args) {
				return fmt.Errorf("%s needs a value", args[i])
			}
			addr = args[i+1]
			i++
		case "-v", "--verbose":
			verbose = true
		default:
			return fmt.Errorf("serve: unknown option %s", args[i])
		}
	}

	logger := newLogger(verbose)
	opts := render.DefaultOptions()
	opts.Width, opts.Height = cfg.Width, cfg.Height
	if b, err := render.ParseBackend(cfg.Backend); err == nil {
		opts.Backend = b
	}

	srv := newServer(diagram.Seed(diagram.WithLogger(logger)), opts, logger)
	logger.Info("nodetool listening", "addr", addr)
	return http.ListenAndServe(addr, srv.routes())
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"service":"nodetool"}`))
	})

	r.Get("/scene.svg", s.handleImage(render.FormatSVG, "image/svg+xml"))
	r.Get("/scene.png", s.handleImage(render.FormatPNG, "image/png"))

	r.Get("/nodes", s.handleListNodes)
	r.Post("/nodes", s.handleAddNode)
	r.Delete("/nodes/{id}", s.handleRemoveNode)

	r.Get("/connectors", s.handleListConnectors)
	r.Post("/connectors", s.handleConnect)

	r.Get("/state", s.handleState)
	r.Post("/pointer/{event}", s.handlePointer)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func toNodeResp(n *diagram.Node) nodeResp {
	return nodeResp{
		ID: n.ID, Name: n.Name,
		X: n.X, Y: n.Y, Width: n.Width, Height: n.Height,
		Selected: n.Selected(),
	}
}

func idOf(n *diagram.Node) *uuid.UUID {
	if n == nil {
		return nil
	}
	return &n.ID
}

// state must be called with mu held.
func (s *server) state() stateResp {
	return stateResp{
		Mode:     s.scene.Mode().String(),
		Selected: idOf(s.scene.Selected()),
		Hover:    idOf(s.scene.NodeUnderCursor()),
	}
}

func (s *server) handleImage(format render.Format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := s.opts
		if name := r.URL.Query().Get("backend"); name != "" {
			b, err := render.ParseBackend(name)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			opts.Backend = b
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		w.Header().Set("Content-Type", contentType)
		if err := render.Export(s.scene, w, format, opts); err != nil {
			if errors.Is(err, render.ErrTooLarge) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.log.Error("render failed", "format", format, "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func (s *server) handleListNodes(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]nodeResp, 0)
	for _, n := range s.scene.Nodes() {
		out = append(out, toNodeResp(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string  `json:"name"`
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	if !finite(req.X) || !finite(req.Y) {
		http.Error(w, "x and y must be finite", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.scene.AddNode(req.Name, req.X, req.Y)
	writeJSON(w, http.StatusCreated, toNodeResp(n))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// lookup resolves a node id, writing the error response when it fails.
func (s *server) lookup(w http.ResponseWriter, raw string) *diagram.Node {
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "invalid node id", http.StatusBadRequest)
		return nil
	}
	n := s.scene.NodeByID(id)
	if n == nil {
		http.Error(w, diagram.ErrNodeNotFound.Error(), http.StatusNotFound)
	}
	return n
}

func (s *server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.lookup(w, chi.URLParam(r, "id"))
	if n == nil {
		return
	}
	if err := s.scene.RemoveNode(n); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleListConnectors(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]connectorResp, 0)
	for _, c := range s.scene.Connectors() {
		out = append(out, connectorResp{
			From:      c.From.(*diagram.Node).ID,
			To:        c.To.(*diagram.Node).ID,
			Placement: c.Path().Placement.String(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.lookup(w, req.From)
	if from == nil {
		return
	}
	to := s.lookup(w, req.To)
	if to == nil {
		return
	}
	c, err := s.scene.Connect(from, to)
	switch {
	case errors.Is(err, diagram.ErrSelfLink):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		writeJSON(w, http.StatusCreated, connectorResp{
			From: from.ID, To: to.ID, Placement: c.Path().Placement.String(),
		})
	}
}

func (s *server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.state())
}

// handlePointer feeds one pointer event to the scene and returns the
// resulting interaction state.
func (s *server) handlePointer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil || !finite(x) || !finite(y) {
		http.Error(w, "x and y must be finite numbers", http.StatusBadRequest)
		return
	}
	link := false
	if v := q.Get("link"); v != "" {
		var err error
		if link, err = strconv.ParseBool(v); err != nil {
			http.Error(w, "link must be a boolean", http.StatusBadRequest)
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch event := chi.URLParam(r, "event"); event {
	case "down":
		s.scene.PointerDown(x, y, link)
	case "move":
		s.scene.PointerMove(x, y)
	case "up":
		s.scene.PointerUp(x, y)
	default:
		http.Error(w, "unknown pointer event "+strconv.Quote(event), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}
