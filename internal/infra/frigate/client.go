package frigate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/haotianfei/frigate-exports-backup/internal/domain/entity"
	"go.uber.org/zap"
)

// exportRequest is the body Frigate expects on an export trigger.
type exportRequest struct {
	Playback string `json:"playback"`
	Source   string `json:"source"`
}

// Client talks to the Frigate HTTP API. All endpoints live under /api on the
// configured base URL.
type Client struct {
	baseURL         string
	fallbackCameras []string
	httpClient      *http.Client
	logger          *zap.Logger
}

func NewClient(baseURL string, fallbackCameras []string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:         baseURL,
		fallbackCameras: fallbackCameras,
		httpClient:      &http.Client{Timeout: timeout},
		logger:          logger,
	}
}

// Cameras discovers camera names from Frigate's live configuration. When
// discovery fails it degrades to the configured fallback list instead of
// returning an error.
func (c *Client) Cameras(ctx context.Context) ([]string, error) {
	var cfg entity.FrigateConfig
	if err := c.getJSON(ctx, c.baseURL+"/api/config", &cfg); err != nil {
		c.logger.Warn("camera discovery failed, using fallback camera list",
			zap.Error(err),
			zap.Strings("fallback", c.fallbackCameras),
		)
		cameras := make([]string, len(c.fallbackCameras))
		copy(cameras, c.fallbackCameras)
		return cameras, nil
	}

	cameras := make([]string, 0, len(cfg.Cameras))
	for name, cam := range cfg.Cameras {
		if cam.Enabled != nil && !*cam.Enabled {
			continue
		}
		cameras = append(cameras, name)
	}
	sort.Strings(cameras)
	return cameras, nil
}

// StartExport triggers an export of recordings for the given camera and
// window. Frigate acknowledges with 200 or 201.
func (c *Client) StartExport(ctx context.Context, camera string, start, end int64) error {
	url := fmt.Sprintf("%s/api/export/%s/start/%d/end/%d", c.baseURL, camera, start, end)

	body, err := json.Marshal(exportRequest{Playback: "realtime", Source: "recordings"})
	if err != nil {
		return fmt.Errorf("encode export request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create export request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("trigger export for %s: %w", camera, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("trigger export for %s: server returned status %d: %s",
			camera, resp.StatusCode, readBodySnippet(resp.Body))
	}
	return nil
}

// ListExports returns every export record Frigate currently holds.
func (c *Client) ListExports(ctx context.Context) ([]entity.ExportRecord, error) {
	var records []entity.ExportRecord
	if err := c.getJSON(ctx, c.baseURL+"/api/exports", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteExport removes the remote export record. Frigate answers 200 or 204.
func (c *Client) DeleteExport(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/api/export/%s", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("create delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete export %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete export %s: server returned status %d", id, resp.StatusCode)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: server returned status %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}

func readBodySnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(b)
}
