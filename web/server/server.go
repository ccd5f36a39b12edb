package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-raycaster/internal/config"
	"github.com/df07/go-raycaster/pkg/scene"
)

const (
	defaultScene = "default"
	minDimension = 16
)

// Server handles web requests for the raycaster
type Server struct {
	cfg    config.ServerConfig
	logger *zap.Logger
	mux    *http.ServeMux
}

// NewServer creates a new web server
func NewServer(cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{cfg: cfg, logger: logger, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	return s
}

// Handler returns the HTTP handler with every route registered
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until ctx is canceled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", zap.String("addr", "http://localhost"+srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down web server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string `json:"scene"`    // Scene ID (e.g., "spherecast", "yaml:metals")
	Width    int    `json:"width"`    // Image width
	Height   int    `json:"height"`   // Image height
	Strategy string `json:"strategy"` // "sequential" or "parallel"
	Workers  int    `json:"workers"`  // Parallel workers, 0 = one per CPU
	Format   string `json:"format"`   // Image encoding for /api/render
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in and YAML scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes()
	if err != nil {
		s.logger.Error("failed to list scenes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses the parameters shared by render and inspect.
// Width and height of 0 keep the scene default.
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{
		Scene:    query.Get("scene"),
		Strategy: query.Get("strategy"),
		Format:   query.Get("format"),
	}
	if req.Scene == "" {
		req.Scene = defaultScene
	}
	if req.Format == "" {
		req.Format = "png"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minDimension, s.cfg.MaxWidth); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, minDimension, s.cfg.MaxHeight); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 0, 256); err != nil {
		return nil, err
	}
	return req, nil
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

// createScene loads a scene by ID and applies the requested size. Only
// discovered scene IDs are accepted; raw file paths are not.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	if strings.ContainsAny(req.Scene, `/\`) || filepath.Ext(req.Scene) != "" {
		return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, req.Scene)
	}

	sceneObj, err := scene.Load(req.Scene)
	if err != nil {
		return nil, err
	}

	width, height := sceneObj.Width, sceneObj.Height
	if req.Width > 0 {
		width = req.Width
	}
	if req.Height > 0 {
		height = req.Height
	}
	// Scene defaults may exceed the server limits
	if width > s.cfg.MaxWidth || height > s.cfg.MaxHeight {
		if width*s.cfg.MaxHeight > height*s.cfg.MaxWidth {
			width, height = s.cfg.MaxWidth, height*s.cfg.MaxWidth/width
		} else {
			width, height = width*s.cfg.MaxHeight/height, s.cfg.MaxHeight
		}
		width, height = max(minDimension, width), max(minDimension, height)
	}
	if err := sceneObj.Resize(width, height); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError maps scene lookup failures to 404 and the rest to 400
func statusForError(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
