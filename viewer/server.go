// Package viewer provides the HTTP backend for the browser-based robot viewer: model discovery,
// kinematic queries, and static file serving. Scene construction and rendering happen entirely in
// the browser; this backend only ever hands out description files and joint configurations.
package viewer

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	goji "goji.io"
	"goji.io/pat"

	"github.com/tek2222/jsrob/kinematics"
	"github.com/tek2222/jsrob/spatialmath"
	"github.com/tek2222/jsrob/urdf"
)

const (
	defaultSolveSteps = 1000
	maxSolveSteps     = 20000
)

// Server serves the viewer API. Parsed models are cached per description file; the underlying
// kinematic models are immutable, so the cache needs no invalidation beyond process restart.
type Server struct {
	modelDir  string
	staticDir string
	logger    golog.Logger

	mu     sync.Mutex
	models map[string]*kinematics.Model
}

// NewServer returns a server reading robot descriptions from modelDir and frontend assets from
// staticDir.
func NewServer(modelDir, staticDir string, logger golog.Logger) *Server {
	return &Server{
		modelDir:  modelDir,
		staticDir: staticDir,
		logger:    logger,
		models:    map[string]*kinematics.Model{},
	}
}

// Handler returns the routed HTTP handler for the viewer API.
func (s *Server) Handler() http.Handler {
	mux := goji.NewMux()
	mux.HandleFunc(pat.Get("/api/models"), s.handleListModels)
	mux.HandleFunc(pat.Get("/api/models/:name"), s.handleModelSummary)
	mux.HandleFunc(pat.Post("/api/models/:name/fk"), s.handleForwardKinematics)
	mux.HandleFunc(pat.Post("/api/models/:name/solve"), s.handleSolve)
	mux.Handle(pat.Get("/static/*"),
		http.StripPrefix("/static", noCache(http.FileServer(http.Dir(s.staticDir)))))
	return mux
}

// noCache wraps a handler with headers keeping browsers from holding on to stale models and
// assets while the user iterates on description files.
func noCache(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		h.ServeHTTP(w, r)
	})
}

func (s *Server) model(name string) (*kinematics.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if model, ok := s.models[name]; ok {
		return model, nil
	}
	model, err := urdf.ParseFile(filepath.Join(s.modelDir, name+"."+urdf.Extension), name)
	if err != nil {
		return nil, err
	}
	s.models[name] = model
	return model, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Errorw("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := ListModels(s.modelDir)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Debugw("listed models", "dir", s.modelDir, "count", len(models))
	s.writeJSON(w, http.StatusOK, models)
}

// jointSummary describes one joint of a model for UI building.
type jointSummary struct {
	Name   string               `json:"name"`
	Type   kinematics.JointType `json:"type"`
	Parent string               `json:"parent"`
	Child  string               `json:"child"`
	Axis   r3.Vector            `json:"axis"`
	Min    *float64             `json:"min,omitempty"`
	Max    *float64             `json:"max,omitempty"`
}

type modelSummary struct {
	Name   string         `json:"name"`
	Links  []string       `json:"links"`
	Roots  []string       `json:"roots"`
	Joints []jointSummary `json:"joints"`
}

func (s *Server) handleModelSummary(w http.ResponseWriter, r *http.Request) {
	model, err := s.model(pat.Param(r, "name"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}

	summary := modelSummary{Name: model.Name(), Roots: model.RootLinks()}
	for _, link := range model.Links() {
		summary.Links = append(summary.Links, link.Name())
	}
	for _, joint := range model.Joints() {
		js := jointSummary{
			Name:   joint.Name(),
			Type:   joint.Type(),
			Parent: joint.Parent(),
			Child:  joint.Child(),
			Axis:   joint.Axis(),
		}
		if limit := joint.Limit(); limit != nil {
			lower, upper := limit.Min, limit.Max
			js.Min, js.Max = &lower, &upper
		}
		summary.Joints = append(summary.Joints, js)
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// poseJSON is the wire representation of a pose: a position plus roll-pitch-yaw angles in
// radians, matching the convention of description file origin elements.
type poseJSON struct {
	Position r3.Vector  `json:"position"`
	RPY      [3]float64 `json:"rpy"`
}

func poseToJSON(p spatialmath.Pose) poseJSON {
	ea := p.Orientation().EulerAngles()
	return poseJSON{Position: p.Point(), RPY: [3]float64{ea.Roll, ea.Pitch, ea.Yaw}}
}

func (p poseJSON) pose() spatialmath.Pose {
	return spatialmath.NewPose(p.Position, &spatialmath.EulerAngles{Roll: p.RPY[0], Pitch: p.RPY[1], Yaw: p.RPY[2]})
}

type fkRequest struct {
	EndEffector string             `json:"endEffector"`
	Positions   map[string]float64 `json:"positions"`
}

func (s *Server) handleForwardKinematics(w http.ResponseWriter, r *http.Request) {
	model, err := s.model(pat.Param(r, "name"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}

	var req fkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	chain, err := model.Chain(req.EndEffector)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	pose := chain.Transform(kinematics.Configuration(req.Positions), nil)
	s.writeJSON(w, http.StatusOK, poseToJSON(pose))
}

// solveRequest's tuning knobs are pointers so an explicit zero, say a position-only solve with
// rotationWeight 0, is distinguishable from an absent field falling back to the default.
type solveRequest struct {
	EndEffector         string             `json:"endEffector"`
	Target              poseJSON           `json:"target"`
	Start               map[string]float64 `json:"start,omitempty"`
	Steps               int                `json:"steps,omitempty"`
	PerturbationDegrees *float64           `json:"perturbationDegrees,omitempty"`
	RotationWeight      *float64           `json:"rotationWeight,omitempty"`
	Seed                int64              `json:"seed,omitempty"`
}

type solveResponse struct {
	Positions map[string]float64 `json:"positions"`
	Pose      poseJSON           `json:"pose"`
	Cost      float64            `json:"cost"`
	Improved  int                `json:"improved"`
	Steps     int                `json:"steps"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	model, err := s.model(pat.Param(r, "name"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}

	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	solver := kinematics.NewSolver(model)
	if err := solver.SetEndEffector(req.EndEffector); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.PerturbationDegrees != nil {
		solver.SetPerturbationDegrees(*req.PerturbationDegrees)
	}
	if req.RotationWeight != nil {
		solver.SetRotationWeight(*req.RotationWeight)
	}
	if req.Seed != 0 {
		solver.Seed(req.Seed)
	}
	for name, value := range req.Start {
		if _, err := solver.SetJointPosition(name, value); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	solver.SetTarget(req.Target.pose())

	steps := req.Steps
	if steps <= 0 {
		steps = defaultSolveSteps
	}
	if steps > maxSolveSteps {
		steps = maxSolveSteps
	}

	solver.Start()
	improved := 0
	for i := 0; i < steps; i++ {
		result, err := solver.Step()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		if result.Improved {
			improved++
		}
	}
	solver.Stop()

	best := solver.Best()
	s.logger.Debugw("solved", "model", model.Name(), "endEffector", req.EndEffector,
		"steps", steps, "improved", improved, "cost", solver.BestCost())
	s.writeJSON(w, http.StatusOK, solveResponse{
		Positions: best,
		Pose:      poseToJSON(solver.Transform(best)),
		Cost:      solver.BestCost(),
		Improved:  improved,
		Steps:     steps,
	})
}
