// Package pricing is a client for the Fossil pricing service. The keeper uses it to check the
// service's data horizon and to submit pricing jobs whose results are delivered on chain.
package pricing

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/argus-labs/world-engine/keeper/pkg/round"
)

const (
	latestBlockPath = "/latest_block"
	pricingDataPath = "/pricing_data"
	apiKeyHeader    = "x-api-key"

	// Response bodies are only read for error messages and small JSON payloads.
	maxBodySize = 1 << 20
)

var (
	// ErrUpstream is returned when the service answered with a non-2xx status.
	ErrUpstream = eris.New("pricing service error")
	// ErrRequest is returned when the service could not be reached.
	ErrRequest = eris.New("pricing service unreachable")
	// ErrMalformed is returned when a 2xx response body could not be decoded.
	ErrMalformed = eris.New("malformed pricing service response")
)

// LatestBlock is the pricing service's data horizon.
type LatestBlock struct {
	Number    uint64 `json:"latest_block_number"`
	Timestamp uint64 `json:"block_timestamp"`
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

// Client talks to one pricing service deployment. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

func NewClient(opts ClientOptions) (*Client, error) {
	options := newDefaultClientOptions()
	opts.apply(&options)
	if err := options.validate(); err != nil {
		return nil, eris.Wrap(err, "invalid pricing client options")
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.Timeout}
	}

	limit := rate.Inf
	if options.RequestsPerSecond > 0 {
		limit = rate.Limit(options.RequestsPerSecond)
	}

	return &Client{
		baseURL: strings.TrimRight(options.BaseURL, "/"),
		apiKey:  options.APIKey,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
		log:     options.Logger,
	}, nil
}

// LatestBlock returns the most recent block the service has ingested.
func (c *Client) LatestBlock(ctx context.Context) (LatestBlock, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+latestBlockPath, nil)
	if err != nil {
		return LatestBlock{}, eris.Wrap(err, "failed to build latest block request")
	}

	var out LatestBlock
	if err := c.do(req, &out); err != nil {
		return LatestBlock{}, err
	}
	return out, nil
}

// SubmitPricingRequest posts a pricing job and returns its id. The job runs asynchronously and
// its result is delivered on chain, so callers do not wait for it.
func (c *Client) SubmitPricingRequest(ctx context.Context, body round.PricingRequest) (string, error) {
	bz, err := json.Marshal(body)
	if err != nil {
		return "", eris.Wrap(err, "failed to marshal pricing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pricingDataPath, bytes.NewReader(bz))
	if err != nil {
		return "", eris.Wrap(err, "failed to build pricing request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	var out submitResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.JobID, nil
}

func (c *Client) do(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return eris.Wrapf(ErrRequest, "rate limiter: %v", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(ErrRequest, "%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return eris.Wrapf(ErrRequest, "failed reading response of %s: %v", req.URL.Path, err)
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Pricing service request")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return eris.Wrapf(ErrUpstream, "%s %s got response of %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrapf(ErrMalformed, "%s: %v", req.URL.Path, err)
	}
	return nil
}
