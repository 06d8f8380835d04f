package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/df07/go-loom/pkg/renderer"
	"github.com/df07/go-loom/pkg/summary"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	SceneRequest
	Samples  int `json:"samples"`  // Samples per pixel
	Shards   int `json:"shards"`   // 0 = logical CPUs
	Interval int `json:"interval"` // Samples per shard between progress updates
}

// ProgressUpdate is sent after every checkpoint round
type ProgressUpdate struct {
	Round           int     `json:"round"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	TargetSamples   int     `json:"targetSamples"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	ImageData       string  `json:"imageData"` // Base64 encoded PNG
	RaysPerSecond   float64 `json:"raysPerSecond"`
	IsComplete      bool    `json:"isComplete"`
	ElapsedMs       int64   `json:"elapsedMs"`
}

// handleRender renders a scene progressively and streams each checkpoint
// round as a PNG via SSE. Console messages are forwarded between updates.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	setSSEHeaders(w)
	send := func(event, data string) {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
	}

	req, err := parseRenderRequest(r)
	if err != nil {
		send("error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	logger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), consoleChan, s.logger)
	forwardConsole := func() {
		for _, msg := range drain(consoleChan) {
			data, _ := json.Marshal(msg)
			send("console", string(data))
		}
	}

	sceneObj, err := s.createScene(req.Scene, req.Seed, logger)
	if err != nil {
		send("error", err.Error())
		return
	}
	world, camera, err := sceneObj.Compile(req.Seed)
	if err != nil {
		send("error", err.Error())
		return
	}

	cfg := renderer.DefaultConfig()
	cfg.Width = req.Width
	cfg.Height = req.Height
	cfg.Samples = req.Samples
	cfg.Shards = req.Shards
	cfg.CheckpointInterval = req.Interval
	cfg.Seed = req.Seed

	round := 0
	_, _, err = renderer.Render(r.Context(), world, camera, cfg, logger,
		func(merged *summary.ImageSummary, stats renderer.RenderStats) error {
			round++
			forwardConsole()

			imageData, err := imageToBase64PNG(merged)
			if err != nil {
				return fmt.Errorf("failed to encode image: %w", err)
			}
			data, err := json.Marshal(ProgressUpdate{
				Round:           round,
				SamplesPerPixel: stats.SamplesPerPixel,
				TargetSamples:   req.Samples,
				Width:           stats.Width,
				Height:          stats.Height,
				ImageData:       imageData,
				RaysPerSecond:   stats.RaysPerSecond(),
				IsComplete:      stats.SamplesPerPixel >= req.Samples,
				ElapsedMs:       stats.Elapsed.Milliseconds(),
			})
			if err != nil {
				return err
			}
			send("progress", string(data))
			return nil
		})
	forwardConsole()

	if err != nil {
		if r.Context().Err() != nil && errors.Is(err, r.Context().Err()) {
			// Client went away
			return
		}
		send("error", fmt.Sprintf("Render error: %v", err))
		return
	}
	send("complete", "Rendering completed")
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// parseRenderRequest parses request parameters
func parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	values := r.URL.Query()
	common, err := parseSceneRequest(values)
	if err != nil {
		return nil, err
	}

	req := &RenderRequest{SceneRequest: common}
	if req.Samples, err = parseIntParam(values, "samples", 16, 1, 10000); err != nil {
		return nil, err
	}
	if req.Shards, err = parseIntParam(values, "shards", renderer.DefaultShards, 0, 1024); err != nil {
		return nil, err
	}
	if req.Interval, err = parseIntParam(values, "interval", 1, 1, 10000); err != nil {
		return nil, err
	}
	return req, nil
}

// imageToBase64PNG converts the gamma-encoded image to base64 PNG
func imageToBase64PNG(s *summary.ImageSummary) (string, error) {
	var buf bytes.Buffer
	if err := s.WritePNG(&buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
