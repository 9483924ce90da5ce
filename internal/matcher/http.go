// internal/matcher/http.go
package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"edna-core/taxonomy"
)

// ErrUnavailable marks timeouts, connection failures and non-2xx
// responses from the remote matcher. Callers recover from it per ASV.
var ErrUnavailable = errors.New("taxonomic matcher unavailable")

// HTTPConfig configures the HTTP matcher client.
type HTTPConfig struct {
	BaseURL  string
	Database string
	// Timeout bounds one search call; batch searches can be slow, so the
	// default is generous. Overridable per call via context deadline.
	Timeout time.Duration
	// RequestsPerSecond / Burst throttle outbound calls so a batch of
	// hundreds of ASVs does not hammer the remote service.
	RequestsPerSecond float64
	Burst             int
}

// DefaultHTTPConfig returns conservative client settings.
func DefaultHTTPConfig(baseURL string) HTTPConfig {
	return HTTPConfig{
		BaseURL:           baseURL,
		Database:          "nt",
		Timeout:           3 * time.Minute,
		RequestsPerSecond: 4,
		Burst:             8,
	}
}

// HTTPClient talks to a BLAST-like taxonomic match service over HTTP.
// All retry/timeout policy lives here so call sites stay uniform.
type HTTPClient struct {
	cfg     HTTPConfig
	hc      *http.Client
	limiter *rate.Limiter
}

// NewHTTP builds the HTTP matcher client.
func NewHTTP(cfg HTTPConfig) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Minute
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 4
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 8
	}
	return &HTTPClient{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// wire schema of the remote service.
type wireHit struct {
	QueryID         string  `json:"queryId"`
	HitID           string  `json:"hitId"`
	PercentIdentity float64 `json:"percentIdentity"`
	QueryCoverage   float64 `json:"queryCoverage"`
	AlignmentLength int     `json:"alignmentLength"`
	EValue          float64 `json:"eValue"`
	Taxonomy        struct {
		Kingdom string `json:"kingdom"`
		Phylum  string `json:"phylum"`
		Class   string `json:"class"`
		Order   string `json:"order"`
		Family  string `json:"family"`
		Genus   string `json:"genus"`
		Species string `json:"species"`
	} `json:"taxonomy"`
}

type wireResponse struct {
	Hits []wireHit `json:"hits"`
}

// Search performs one rate-limited, timeout-bounded search call.
// Any transport or status failure comes back wrapped in ErrUnavailable.
func (c *HTTPClient) Search(ctx context.Context, req Request) (Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if req.Database == "" {
		req.Database = c.cfg.Database
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("encode search request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return Response{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return Response{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	out := Response{Hits: make([]taxonomy.Hit, 0, len(wire.Hits))}
	for _, h := range wire.Hits {
		out.Hits = append(out.Hits, taxonomy.Hit{
			QueryID:         h.QueryID,
			HitID:           h.HitID,
			PercentIdentity: h.PercentIdentity,
			QueryCoverage:   h.QueryCoverage,
			AlignmentLength: h.AlignmentLength,
			EValue:          h.EValue,
			Lineage: taxonomy.Lineage{
				Kingdom: h.Taxonomy.Kingdom,
				Phylum:  h.Taxonomy.Phylum,
				Class:   h.Taxonomy.Class,
				Order:   h.Taxonomy.Order,
				Family:  h.Taxonomy.Family,
				Genus:   h.Taxonomy.Genus,
				Species: h.Taxonomy.Species,
			},
		})
	}
	return out, nil
}
