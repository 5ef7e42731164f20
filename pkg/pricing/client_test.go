package pricing_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-labs/world-engine/keeper/pkg/pricing"
	"github.com/argus-labs/world-engine/keeper/pkg/round"
)

func newClient(t *testing.T, url string) *pricing.Client {
	t.Helper()
	client, err := pricing.NewClient(pricing.ClientOptions{
		BaseURL:           url,
		APIKey:            "secret",
		RequestsPerSecond: -1,
	})
	require.NoError(t, err)
	return client
}

func TestLatestBlock(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/latest_block", r.URL.Path)
		_, _ = w.Write([]byte(`{"latest_block_number": 123, "block_timestamp": 1000}`))
	}))
	t.Cleanup(srv.Close)

	// Trailing slashes on the base URL are tolerated.
	latest, err := newClient(t, srv.URL+"/api/").LatestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pricing.LatestBlock{Number: 123, Timestamp: 1000}, latest)
}

func TestSubmitPricingRequest(t *testing.T) {
	t.Parallel()

	desc := round.Descriptor{
		VaultAddress: common.HexToAddress("0x00000000000000000000000000000000000000aa"),
		Timestamp:    1000,
	}
	body := round.NewPricingRequest(desc, common.HexToAddress("0xbb"), 100)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pricing_data", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var got round.PricingRequest
		assert.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, body, got)

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"job_id": "job-1"}`))
	}))
	t.Cleanup(srv.Close)

	jobID, err := newClient(t, srv.URL).SubmitPricingRequest(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
}

func TestUpstreamErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad api key"))
	}))
	t.Cleanup(srv.Close)

	client := newClient(t, srv.URL)
	_, err := client.SubmitPricingRequest(context.Background(), round.PricingRequest{})
	require.Error(t, err)
	assert.True(t, eris.Is(err, pricing.ErrUpstream))
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "bad api key")

	_, err = client.LatestBlock(context.Background())
	assert.True(t, eris.Is(err, pricing.ErrUpstream))
}

func TestMalformedAndUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	t.Cleanup(srv.Close)

	_, err := newClient(t, srv.URL).LatestBlock(context.Background())
	require.Error(t, err)
	assert.True(t, eris.Is(err, pricing.ErrMalformed))

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()

	_, err = newClient(t, url).LatestBlock(context.Background())
	require.Error(t, err)
	assert.True(t, eris.Is(err, pricing.ErrRequest))
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"latest_block_number": 1, "block_timestamp": 1}`))
	}))
	t.Cleanup(srv.Close)

	client, err := pricing.NewClient(pricing.ClientOptions{
		BaseURL:           srv.URL,
		APIKey:            "secret",
		RequestsPerSecond: 0.5,
	})
	require.NoError(t, err)

	_, err = client.LatestBlock(context.Background())
	require.NoError(t, err)

	// The bucket is empty now; the next token is two seconds away.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = client.LatestBlock(ctx)
	require.Error(t, err)
	assert.True(t, eris.Is(err, pricing.ErrRequest))
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	for _, opts := range []pricing.ClientOptions{
		{APIKey: "k"},
		{BaseURL: "ftp://fossil", APIKey: "k"},
		{BaseURL: "https://fossil"},
	} {
		_, err := pricing.NewClient(opts)
		require.Error(t, err)
	}
}
