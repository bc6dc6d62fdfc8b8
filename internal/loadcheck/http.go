package loadcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request and decodes a JSON response into out.
func (c *HTTPClient) Get(ctx context.Context, url string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

// Send performs a request with a JSON body and decodes the response into out.
func (c *HTTPClient) Send(ctx context.Context, method, url string, body any, header http.Header, out any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) (int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// submitProfiles posts payloads concurrently using a worker pool.
func submitProfiles(ctx context.Context, config *Config, payloads []*Payload, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "submitting profiles", logger.Int("profiles", len(payloads)), logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/users"

	var created, rejected, failed, submitted int64

	jobs := make(chan *Payload, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				if ctx.Err() != nil {
					return
				}
				switch submitSingleProfile(ctx, client, url, p) {
				case outcomeCreated:
					atomic.AddInt64(&created, 1)
				case outcomeRejected:
					atomic.AddInt64(&rejected, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
				if n := atomic.AddInt64(&submitted, 1); config.Verbose && n%100 == 0 {
					log.Info(ctx, "progress", logger.Int64("submitted", n), logger.Int("total", len(payloads)))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range payloads {
			select {
			case <-ctx.Done():
				return
			case jobs <- p:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Created = int(atomic.LoadInt64(&created))
	stats.Rejected = int(atomic.LoadInt64(&rejected))
	stats.Failed = int(atomic.LoadInt64(&failed))

	log.Info(ctx, "submission completed",
		logger.Int("created", stats.Created),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed))
	return ctx.Err()
}

// submitSingleProfile posts one payload and records the outcome on it.
func submitSingleProfile(ctx context.Context, client *HTTPClient, url string, p *Payload) string {
	var profile model.Profile
	status, err := client.Send(ctx, http.MethodPost, url, p.Request, nil, &profile)
	p.Status = status
	if err != nil {
		return outcomeFailed
	}
	switch {
	case status == http.StatusCreated:
		p.Profile = &profile
		return outcomeCreated
	case status == http.StatusBadRequest && p.Invalid:
		return outcomeRejected
	default:
		return outcomeFailed
	}
}

// patchProfiles applies a sparse availability update with If-Match to up to
// PatchSample created profiles and checks the version advanced.
func patchProfiles(ctx context.Context, config *Config, payloads []*Payload, stats *Stats) {
	client := newHTTPClient(config.Timeout)
	const patched = "Weekends"

	for _, p := range payloads {
		if stats.Patched+stats.PatchFailed >= config.PatchSample {
			break
		}
		if p.Profile == nil {
			continue
		}
		header := http.Header{"If-Match": {strconv.Quote(strconv.FormatInt(p.Profile.Version, 10))}}
		var updated model.Profile
		status, err := client.Send(ctx, http.MethodPut, config.BaseURL+"/api/users/"+p.Profile.ID,
			map[string]string{"availability": patched}, header, &updated)
		if err != nil || status != http.StatusOK || updated.Version != p.Profile.Version+1 {
			stats.PatchFailed++
			logger.Get().Warn(ctx, "patch failed",
				logger.String("id", p.Profile.ID), logger.Int("status", status), logger.Any("error", err))
			continue
		}
		p.Profile = &updated
		stats.Patched++
	}
	logger.Get().Info(ctx, "patching completed",
		logger.Int("patched", stats.Patched), logger.Int("failed", stats.PatchFailed))
}
