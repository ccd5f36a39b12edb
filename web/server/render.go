package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-raycaster/pkg/loaders"
	"github.com/df07/go-raycaster/pkg/renderer"
)

// Stats represents render statistics
type Stats struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	TotalPixels      int     `json:"totalPixels"`
	Hits             int     `json:"hits"`
	Coverage         float64 `json:"coverage"`
	AverageLuminance float64 `json:"averageLuminance"`
	Strategy         string  `json:"strategy"`
	Workers          int     `json:"workers"`
	Chunks           int     `json:"chunks"`
	ElapsedMs        int64   `json:"elapsedMs"`
}

// RenderResult is the final SSE event of a streamed render
type RenderResult struct {
	Scene     string `json:"scene"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// SSEEvent is a single server-sent event
type SSEEvent struct {
	Event string
	Data  string
}

func newStats(rs renderer.RenderStats) Stats {
	return Stats{
		Width:            rs.Width,
		Height:           rs.Height,
		TotalPixels:      rs.TotalPixels,
		Hits:             rs.Hits,
		Coverage:         rs.Coverage,
		AverageLuminance: rs.AverageLuminance,
		Strategy:         rs.Strategy.String(),
		Workers:          rs.Workers,
		Chunks:           rs.Chunks,
		ElapsedMs:        rs.Elapsed.Milliseconds(),
	}
}

// render loads the requested scene and renders it with the given logger
func (s *Server) render(ctx context.Context, req *RenderRequest, logger *zap.Logger) (*renderer.Frame, renderer.RenderStats, int, error) {
	strategy, err := renderer.ParseStrategy(req.Strategy)
	if err != nil {
		return nil, renderer.RenderStats{}, http.StatusBadRequest, err
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		return nil, renderer.RenderStats{}, statusForError(err), err
	}

	screen, err := sceneObj.NewScreen(
		renderer.WithStrategy(strategy),
		renderer.WithWorkers(req.Workers),
		renderer.WithLogger(logger),
	)
	if err != nil {
		return nil, renderer.RenderStats{}, http.StatusBadRequest, err
	}

	logger.Info("rendering scene", sceneObj.LogFields(screen.Width, screen.Height)...)

	frame, stats, err := screen.RenderContext(ctx, sceneObj.Camera, sceneObj.World)
	if err != nil {
		return nil, stats, http.StatusServiceUnavailable, err
	}
	return frame, stats, http.StatusOK, nil
}

// handleRender renders a scene and responds with the encoded image.
// Render statistics are reported in X-Render-* headers.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	format, err := loaders.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	frame, stats, status, err := s.render(r.Context(), req, s.logger.Named("render"))
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := loaders.EncodeImage(&buf, frame.Image(), format); err != nil {
		s.logger.Error("failed to encode image", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h := w.Header()
	h.Set("Content-Type", format.ContentType())
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	h.Set("X-Render-Hits", strconv.Itoa(stats.Hits))
	h.Set("X-Render-Coverage", strconv.FormatFloat(stats.Coverage, 'f', 4, 64))
	h.Set("X-Render-Strategy", stats.Strategy.String())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleRenderStream renders a scene over SSE: "console" events carry log
// lines while rendering, then a single "complete" or "error" event follows
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	s.setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	renderID := fmt.Sprintf("%s-%d", req.Scene, time.Now().UnixNano())
	consoleChan := make(chan ConsoleMessage, 64)
	logger := NewConsoleLogger(s.logger.Named("render"), renderID, consoleChan)

	type outcome struct {
		frame *renderer.Frame
		stats renderer.RenderStats
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		frame, stats, _, err := s.render(ctx, req, logger)
		done <- outcome{frame, stats, err}
	}()

	// Only this goroutine writes to w
	for {
		select {
		case msg := <-consoleChan:
			s.writeConsoleEvent(w, flusher, msg)
		case result := <-done:
			for drained := false; !drained; {
				select {
				case msg := <-consoleChan:
					s.writeConsoleEvent(w, flusher, msg)
				default:
					drained = true
				}
			}
			if result.err != nil {
				writeSSEEvent(w, flusher, SSEEvent{Event: "error", Data: result.err.Error()})
				return
			}
			s.writeCompleteEvent(w, flusher, req.Scene, result.frame.Image(), result.stats)
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) writeConsoleEvent(w http.ResponseWriter, flusher http.Flusher, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	writeSSEEvent(w, flusher, SSEEvent{Event: "console", Data: string(data)})
}

func (s *Server) writeCompleteEvent(w http.ResponseWriter, flusher http.Flusher, sceneID string, img image.Image, stats renderer.RenderStats) {
	imageData, err := imageToBase64PNG(img)
	if err != nil {
		writeSSEEvent(w, flusher, SSEEvent{Event: "error", Data: "failed to encode image: " + err.Error()})
		return
	}
	data, err := json.Marshal(RenderResult{Scene: sceneID, ImageData: imageData, Stats: newStats(stats)})
	if err != nil {
		writeSSEEvent(w, flusher, SSEEvent{Event: "error", Data: err.Error()})
		return
	}
	writeSSEEvent(w, flusher, SSEEvent{Event: "complete", Data: string(data)})
}

// setSSEHeaders sets the headers for server-sent events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, event SSEEvent) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, event.Data)
	flusher.Flush()
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := loaders.EncodeImage(&buf, img, loaders.FormatPNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
