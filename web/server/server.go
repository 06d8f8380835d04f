package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-loom/pkg/core"
	"github.com/df07/go-loom/pkg/scene"
)

// Server streams progressive renders of the available scenes over HTTP
type Server struct {
	port      int
	scenesDir string
	logger    core.Logger
}

// NewServer creates a new web server. Scene documents are looked up in
// scenesDir in addition to the built-in scenes.
func NewServer(port int, scenesDir string, logger core.Logger) *Server {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Server{port: port, scenesDir: scenesDir, logger: logger}
}

// Handler returns the routes of the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("starting web server on http://localhost%s", srv.Addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errChan; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene documents on disk
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// SceneRequest holds the scene selection and image size shared by the
// render and inspect endpoints
type SceneRequest struct {
	Scene  string `json:"scene"`  // Built-in name or "file:<name>"
	Width  int    `json:"width"`  // 0 = height times camera aspect
	Height int    `json:"height"` // Image height
	Seed   int64  `json:"seed"`   // Base seed for BVH construction and shards
}

// parseSceneRequest parses the common scene parameters
func parseSceneRequest(values url.Values) (SceneRequest, error) {
	req := SceneRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, 0, 2000); err != nil {
		return req, err
	}
	if req.Height, err = parseIntParam(values, "height", 200, 1, 2000); err != nil {
		return req, err
	}
	seed, err := parseIntParam(values, "seed", 42, 0, 1<<30)
	if err != nil {
		return req, err
	}
	req.Seed = int64(seed)
	return req, nil
}

// createScene resolves a scene id from ListAllScenes
func (s *Server) createScene(id string, seed int64, logger core.Logger) (*scene.Scene, error) {
	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range scenes {
		if info.ID != id {
			continue
		}
		if info.Type == "file" {
			return scene.LoadFile(info.FilePath, seed, logger)
		}
		return scene.Builtin(info.ID)
	}
	return nil, fmt.Errorf("unknown scene: %s", id)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
