package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"github.com/daniacca/rxtrig/internal/rxn"
	"github.com/daniacca/rxtrig/internal/rxn/notifiers"
	"github.com/daniacca/rxtrig/pkg/client"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 16

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// GET /species
func (s *Server) handleListSpecies(w http.ResponseWriter, _ *http.Request) {
	reg := s.world.Registry()
	out := make([]client.SpeciesInfo, 0, reg.Len())
	for _, sp := range reg.All() {
		out = append(out, client.SpeciesInfo{
			ID:           uint16(sp.ID),
			Name:         sp.Name,
			Hash:         sp.Hash,
			SurfaceClass: sp.IsSurfaceClass(),
			OnGrid:       sp.Flags.Has(rxn.OnGrid),
			Generic:      sp.Flags.Has(rxn.Generic),
		})
	}
	writeJSON(w, http.StatusOK, client.SpeciesList{Species: out})
}

// GET /reactions
// Lists every record in bucket order, then chain order.
func (s *Server) handleListReactions(w http.ResponseWriter, _ *http.Request) {
	reg := s.world.Registry()
	out := make([]client.ReactionInfo, 0, s.world.Table().Len())
	for bucket, chain := range s.world.Table().Buckets() {
		for _, r := range chain {
			info := client.ReactionInfo{
				Name:       r.Name,
				Players:    make([]string, len(r.Players)),
				Geometries: make([]int16, len(r.Geometries)),
				Bucket:     bucket,
				Pathways:   make([]client.PathwayInfo, len(r.Pathways)),
			}
			for i, id := range r.Players {
				if sp, ok := reg.Species(id); ok {
					info.Players[i] = sp.Name
				}
			}
			for i, g := range r.Geometries {
				info.Geometries[i] = int16(g)
			}
			for i := range r.Pathways {
				p := &r.Pathways[i]
				info.Pathways[i] = client.PathwayInfo{Name: p.Name, Rate: p.Rate, Occurred: p.Occurred()}
			}
			out = append(out, info)
		}
	}
	writeJSON(w, http.StatusOK, client.ReactionList{Reactions: out})
}

func (s *Server) lookupSpecies(name string) (*rxn.Species, error) {
	sp, ok := s.world.Registry().Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", rxn.ErrUnknownSpecies, name)
	}
	return sp, nil
}

func orientation(o int8) (rxn.Orientation, error) {
	orient := rxn.Orientation(o)
	if !orient.Valid() {
		return 0, fmt.Errorf("invalid orientation %d", o)
	}
	return orient, nil
}

func (s *Server) resolveWall(ref client.WallRef) (*rxn.Wall, error) {
	class, err := s.lookupSpecies(ref.Class)
	if err != nil {
		return nil, err
	}
	if !class.IsSurfaceClass() {
		return nil, fmt.Errorf("%q is not a surface class", ref.Class)
	}
	return &rxn.Wall{ID: ref.ID, Class: class.ID}, nil
}

func (s *Server) resolveMolecule(ref client.MoleculeRef) (rxn.Molecule, error) {
	sp, err := s.lookupSpecies(ref.Species)
	if err != nil {
		return rxn.Molecule{}, err
	}
	if sp.IsSurfaceClass() {
		return rxn.Molecule{}, fmt.Errorf("%q is a surface class, not a molecule", ref.Species)
	}
	o, err := orientation(ref.Orient)
	if err != nil {
		return rxn.Molecule{}, err
	}
	m := rxn.Molecule{Species: sp.ID, Orient: o}
	if ref.Wall != nil {
		if m.Wall, err = s.resolveWall(*ref.Wall); err != nil {
			return rxn.Molecule{}, err
		}
	}
	return m, nil
}

func single(r *rxn.Reaction) client.TriggerResponse {
	resp := client.TriggerResponse{Reactions: []string{}}
	if r != nil {
		resp.Reactions = append(resp.Reactions, r.Name)
	}
	return resp
}

func matches(out []*rxn.Reaction, n int, truncated bool) client.TriggerResponse {
	resp := client.TriggerResponse{Reactions: make([]string, n), Truncated: truncated}
	for i, r := range out[:n] {
		resp.Reactions[i] = r.Name
	}
	return resp
}

// POST /trigger/unimolecular
func (s *Server) handleUnimolecular(w http.ResponseWriter, r *http.Request) {
	var req client.UnimolecularRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := s.resolveMolecule(req.Molecule)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	found := s.world.TriggerUnimolecular(s.world.SpeciesHash(m.Species), &m)
	writeJSON(w, http.StatusOK, single(found))
}

// POST /trigger/surface-unimolecular
func (s *Server) handleSurfaceUnimolecular(w http.ResponseWriter, r *http.Request) {
	var req client.SurfaceUnimolecularRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := s.resolveMolecule(req.Molecule)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var wl *rxn.Wall
	if req.Wall != nil {
		if wl, err = s.resolveWall(*req.Wall); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if wl == nil && m.Wall == nil {
		http.Error(w, "molecule is not on a wall and no wall was given", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, single(s.world.TriggerSurfaceUnimolecular(&m, wl)))
}

// POST /trigger/bimolecular
func (s *Server) handleBimolecular(w http.ResponseWriter, r *http.Request) {
	var req client.BimolecularRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := s.resolveMolecule(req.A)
	if err != nil {
		http.Error(w, "a: "+err.Error(), http.StatusBadRequest)
		return
	}
	b, err := s.resolveMolecule(req.B)
	if err != nil {
		http.Error(w, "b: "+err.Error(), http.StatusBadRequest)
		return
	}
	oA, err := orientation(req.OrientA)
	if err != nil {
		http.Error(w, "orient_a: "+err.Error(), http.StatusBadRequest)
		return
	}
	oB, err := orientation(req.OrientB)
	if err != nil {
		http.Error(w, "orient_b: "+err.Error(), http.StatusBadRequest)
		return
	}
	if a.Orient != rxn.Unoriented && a.Orient != oA {
		http.Error(w, fmt.Sprintf("a: orient %d disagrees with orient_a %d", a.Orient, oA), http.StatusBadRequest)
		return
	}
	if b.Orient != rxn.Unoriented && b.Orient != oB {
		http.Error(w, fmt.Sprintf("b: orient %d disagrees with orient_b %d", b.Orient, oB), http.StatusBadRequest)
		return
	}

	buf := s.getBuffer()
	defer s.putBuffer(buf)
	n, truncated := s.world.TriggerBimolecular(
		s.world.SpeciesHash(a.Species), s.world.SpeciesHash(b.Species),
		&a, &b, oA, oB, *buf)
	writeJSON(w, http.StatusOK, matches(*buf, n, truncated))
}

// POST /trigger/trimolecular
func (s *Server) handleTrimolecular(w http.ResponseWriter, r *http.Request) {
	var req client.TrimolecularRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var ids [3]rxn.SpeciesID
	for i, name := range []string{req.A, req.B, req.C} {
		sp, err := s.lookupSpecies(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ids[i] = sp.ID
	}
	oA, err := orientation(req.OrientA)
	if err != nil {
		http.Error(w, "orient_a: "+err.Error(), http.StatusBadRequest)
		return
	}
	oC, err := orientation(req.OrientC)
	if err != nil {
		http.Error(w, "orient_c: "+err.Error(), http.StatusBadRequest)
		return
	}

	buf := s.getBuffer()
	defer s.putBuffer(buf)
	n, truncated := s.world.TriggerTrimolecular(
		s.world.SpeciesHash(ids[0]), s.world.SpeciesHash(ids[1]), s.world.SpeciesHash(ids[2]),
		ids[0], ids[1], ids[2], oA, oC, *buf)
	writeJSON(w, http.StatusOK, matches(*buf, n, truncated))
}

// POST /trigger/intersect
func (s *Server) handleIntersect(w http.ResponseWriter, r *http.Request) {
	var req client.IntersectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := s.resolveMolecule(req.Molecule)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	o, err := orientation(req.Orient)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	wl, err := s.resolveWall(req.Wall)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	found := s.world.TriggerIntersect(s.world.SpeciesHash(m.Species), &m, o, wl)
	writeJSON(w, http.StatusOK, single(found))
}

// GET /ws/diagnostics
// Streams overflow events to the client until it disconnects.
func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	upgrader := s.diagnostics.GetUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("WebSocket upgrade failed: %v", err)
		return
	}
	s.diagnostics.RegisterClient(conn)
	s.logger.Debugf("Diagnostics client connected: remote=%s", r.RemoteAddr)

	// Clients never send anything meaningful; reading detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.diagnostics.UnregisterClient(conn)
	s.logger.Debugf("Diagnostics client disconnected: remote=%s", r.RemoteAddr)
}

// GET /notifiers
func (s *Server) handleListNotifiers(w http.ResponseWriter, _ *http.Request) {
	ids := s.notifierMgr.ListNotifiers()
	slices.Sort(ids)

	out := make([]client.NotifierInfo, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.notifierMgr.GetNotifier(id); ok {
			out = append(out, client.NotifierInfo{ID: id, Type: n.Type()})
		}
	}
	writeJSON(w, http.StatusOK, client.NotifierList{Notifiers: out})
}

// POST /notifiers
// Only webhooks can be registered; the websocket notifier is built in.
func (s *Server) handleRegisterNotifier(w http.ResponseWriter, r *http.Request) {
	var req client.RegisterNotifierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ID == "" {
		req.ID = rxn.NewRandomID()
	}

	if req.Type != "webhook" {
		http.Error(w, "unknown notifier type: "+req.Type, http.StatusBadRequest)
		return
	}
	if req.Config.URL == "" {
		http.Error(w, "webhook URL is required", http.StatusBadRequest)
		return
	}

	wh := notifiers.NewWebhookNotifier(req.ID, req.Config.URL)
	for k, v := range req.Config.Headers {
		wh.SetHeader(k, v)
	}
	if err := s.notifierMgr.RegisterNotifier(wh); err != nil {
		http.Error(w, "cannot register notifier: "+err.Error(), http.StatusConflict)
		return
	}
	s.logger.Infof("Notifier registered: id=%s type=%s url=%s", req.ID, req.Type, req.Config.URL)
	writeJSON(w, http.StatusCreated, client.NotifierInfo{ID: req.ID, Type: wh.Type()})
}

// DELETE /notifiers/{id}
func (s *Server) handleUnregisterNotifier(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == diagnosticsID {
		http.Error(w, "the diagnostics notifier cannot be removed", http.StatusForbidden)
		return
	}
	if _, ok := s.notifierMgr.GetNotifier(id); !ok {
		http.Error(w, "notifier not found: "+id, http.StatusNotFound)
		return
	}
	if err := s.notifierMgr.UnregisterNotifier(id); err != nil {
		http.Error(w, "cannot unregister notifier: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Infof("Notifier unregistered: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
