package main

import (
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"arm-planner/planner"
)

// Server exposes a Scene and its planner over HTTP.
type Server struct {
	scene    *Scene
	planner  *planner.Planner
	logger   *zap.SugaredLogger
	clock    clock.Clock
	interval time.Duration
}

// NewServer wires a scene to a planner.
func NewServer(scene *Scene, p *planner.Planner, logger *zap.SugaredLogger, clk clock.Clock, interval time.Duration) *Server {
	if clk == nil {
		clk = clock.New()
	}
	if interval <= 0 {
		interval = planner.DefaultSampleInterval
	}
	return &Server{scene: scene, planner: p, logger: logger, clock: clk, interval: interval}
}

// Handler returns the routed handler with CORS enabled for all origins.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	router.HandleFunc("/scene", s.sceneHandler).Methods(http.MethodGet)
	router.HandleFunc("/arm", s.armHandler).Methods(http.MethodPost)
	router.HandleFunc("/arm/reach", s.reachHandler).Methods(http.MethodPost)
	router.HandleFunc("/reset", s.resetHandler).Methods(http.MethodPost)

	router.HandleFunc("/obstacles", s.listObstaclesHandler).Methods(http.MethodGet)
	router.HandleFunc("/obstacles", s.addObstacleHandler).Methods(http.MethodPost)
	router.HandleFunc("/obstacles/geojson", s.exportGeoJSONHandler).Methods(http.MethodGet)
	router.HandleFunc("/obstacles/geojson", s.importGeoJSONHandler).Methods(http.MethodPost)
	router.HandleFunc("/obstacles/{id:[0-9]+}/move", s.moveObstacleHandler).Methods(http.MethodPost)
	router.HandleFunc("/obstacles/{id:[0-9]+}/resize", s.resizeObstacleHandler).Methods(http.MethodPost)
	router.HandleFunc("/obstacles/{id:[0-9]+}/select", s.selectObstacleHandler).Methods(http.MethodPost)
	router.HandleFunc("/obstacles/{id:[0-9]+}", s.deleteObstacleHandler).Methods(http.MethodDelete)

	router.HandleFunc("/plan", s.planHandler).Methods(http.MethodPost)
	router.HandleFunc("/pose", s.poseHandler).Methods(http.MethodGet)
	router.HandleFunc("/configurationSpace.png", s.rasterHandler).Methods(http.MethodGet)
	router.HandleFunc("/playback", s.playbackHandler).Methods(http.MethodGet)

	return cors.AllowAll().Handler(router)
}

// PlanResponse is the body returned by POST /plan. Unreachable tells a
// destination out of the arm's reach apart from one cut off by obstacles.
type PlanResponse struct {
	Success     bool                   `json:"success"`
	Message     string                 `json:"message,omitempty"`
	Branch      *planner.Branch        `json:"branch,omitempty"`
	Start       *planner.Configuration `json:"start,omitempty"`
	Destination *planner.Configuration `json:"destination,omitempty"`
	Path        planner.Path           `json:"path,omitempty"`
	Poses       []planner.Pose         `json:"poses,omitempty"`
	Steps       int                    `json:"steps"`
	Blocked     int                    `json:"blockedCells"`
	Unreachable bool                   `json:"unreachable,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

// statusFor maps scene errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errObstacleNotFound), errors.Is(err, errNoPlan):
		return http.StatusNotFound
	case errors.Is(err, errNoArm):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "invalid request body")
	}
	return nil
}

func obstacleID(r *http.Request) int {
	// The route pattern only admits digits.
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

// GET /health - Health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	state := s.scene.State()

	status := "ready"
	if state.Arm == nil {
		status = "waiting for arm"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       status,
		"hasArm":       state.Arm != nil,
		"numObstacles": len(state.Obstacles),
		"hasPath":      state.HasPath,
	})
}

// GET /scene
func (s *Server) sceneHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.scene.State())
}

// POST /arm - Define the arm from three placements
func (s *Server) armHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Base  planner.Point `json:"base"`
		Joint planner.Point `json:"joint"`
		End   planner.Point `json:"end"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	arm, err := s.scene.SetArm(req.Base, req.Joint, req.End)
	if err != nil {
		s.logger.Infof("rejected arm: %v", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.logger.Infof("arm defined at (%.2f, %.2f): L1=%.2f L2=%.2f", arm.Base.X, arm.Base.Y, arm.L1, arm.L2)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"arm":      arm,
		"minReach": arm.MinReach(),
		"maxReach": arm.MaxReach(),
	})
}

// POST /arm/reach - Move the end effector
func (s *Server) reachHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position planner.Point `json:"position"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	down, up, err := s.scene.Reach(req.Position)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"elbowDown": down,
		"elbowUp":   up,
	})
}

// POST /reset
func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	s.scene.Reset()
	writeJSON(w, http.StatusOK, s.scene.State())
}

// GET /obstacles
func (s *Server) listObstaclesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.scene.Obstacles())
}

// POST /obstacles
func (s *Server) addObstacleHandler(w http.ResponseWriter, r *http.Request) {
	var req planner.Rectangle
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.scene.AddObstacle(req.Position, req.Size))
}

// POST /obstacles/{id}/move
func (s *Server) moveObstacleHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.respondObstacle(w, r, func(o *planner.Obstacle) {
		o.Move(planner.Point{X: req.DX, Y: req.DY})
	})
}

// POST /obstacles/{id}/resize
func (s *Server) resizeObstacleHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.respondObstacle(w, r, func(o *planner.Obstacle) {
		o.Resize(req.Width, req.Height)
	})
}

func (s *Server) respondObstacle(w http.ResponseWriter, r *http.Request, edit func(*planner.Obstacle)) {
	o, err := s.scene.UpdateObstacle(obstacleID(r), edit)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// POST /obstacles/{id}/select
func (s *Server) selectObstacleHandler(w http.ResponseWriter, r *http.Request) {
	o, err := s.scene.SelectObstacle(obstacleID(r))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// DELETE /obstacles/{id}
func (s *Server) deleteObstacleHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.scene.DeleteObstacle(obstacleID(r)); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /obstacles/geojson - Add the bounding rectangles of a FeatureCollection
func (s *Server) importGeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "failed to read body"))
		return
	}
	obstacles, err := planner.ParseObstaclesGeoJSON(data, 0, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.scene.AddObstacles(obstacles))
}

// GET /obstacles/geojson
func (s *Server) exportGeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	data, err := planner.ObstaclesToGeoJSON(s.scene.Obstacles())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

// POST /plan - Plan a path to the destination
func (s *Server) planHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Destination planner.Point `json:"destination"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.logger.Infof("plan request: destination (%.2f, %.2f)", req.Destination.X, req.Destination.Y)
	plan, err := s.scene.Plan(s.planner, req.Destination)
	if plan == nil {
		writeError(w, statusFor(err), err)
		return
	}

	response := PlanResponse{Blocked: plan.Space.BlockedCount()}
	if err != nil {
		response.Message = err.Error()
		response.Unreachable = errors.Is(err, planner.ErrAngleComputationUndefined)
		writeJSON(w, http.StatusOK, response)
		return
	}

	response.Success = true
	response.Branch = &plan.Branch
	response.Start = &plan.Start
	response.Destination = &plan.Destination
	response.Path = plan.Path
	response.Poses = plan.Path.Poses(plan.Arm)
	response.Steps = plan.Path.Steps()
	writeJSON(w, http.StatusOK, response)
}

// GET /pose?elapsed=<ms>
func (s *Server) poseHandler(w http.ResponseWriter, r *http.Request) {
	path, arm, err := s.scene.Path()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	ms, err := strconv.ParseInt(r.URL.Query().Get("elapsed"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "elapsed must be milliseconds"))
		return
	}

	pose, ok := planner.SamplePose(arm, path, time.Duration(ms)*time.Millisecond, s.interval)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"finished": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"finished": false, "pose": pose})
}

// GET /configurationSpace.png
func (s *Server) rasterHandler(w http.ResponseWriter, r *http.Request) {
	plan, _, err := s.scene.LastPlan()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	img := plan.Space.Raster()
	if plan.Field != nil {
		img = plan.Field.Raster(plan.Path)
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		s.logger.Warnf("failed to encode configuration space: %v", err)
	}
}

// playbackMessage is one websocket frame of GET /playback.
type playbackMessage struct {
	Type string        `json:"type"`
	Pose *planner.Pose `json:"pose,omitempty"`
}

// GET /playback - Stream the planned motion, one pose per interval
func (s *Server) playbackHandler(w http.ResponseWriter, r *http.Request) {
	path, arm, err := s.scene.Path()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("upgrade: %v", err)
		return
	}
	defer c.Close()

	// Reading is needed to notice the client closing the socket.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	playback := planner.NewPlayback(s.clock, arm, path, s.interval)
	ticker := playback.Ticker()
	defer ticker.Stop()

	s.logger.Infof("playback started: %d poses, one every %s, over %s",
		len(path), playback.Interval(), playback.Duration())
	for {
		pose, ok := playback.Pose()
		if !ok {
			c.WriteJSON(playbackMessage{Type: "finished"})
			c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "playback finished"))
			s.logger.Infof("playback finished")
			return
		}
		if err := c.WriteJSON(playbackMessage{Type: "pose", Pose: &pose}); err != nil {
			s.logger.Infof("playback aborted: %v", err)
			return
		}

		select {
		case <-closed:
			s.logger.Infof("playback client disconnected")
			return
		case <-ticker.C:
		}
	}
}
