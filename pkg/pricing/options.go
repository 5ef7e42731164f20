package pricing

import (
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// ClientOptions configures a Client. Zero values are replaced with defaults.
type ClientOptions struct {
	// BaseURL is the service root, e.g. https://fossil.example.com/api.
	BaseURL string

	// APIKey is sent as the x-api-key header on job submissions.
	APIKey string

	// Timeout is the per request timeout. Ignored when HTTPClient is set.
	Timeout time.Duration

	// RequestsPerSecond caps outgoing requests. Zero uses the default and a negative value
	// disables the limit.
	RequestsPerSecond float64

	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

type clientOptions struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            zerolog.Logger
}

func newDefaultClientOptions() clientOptions {
	return clientOptions{
		Timeout:           30 * time.Second, //nolint:mnd // default
		RequestsPerSecond: 5,                //nolint:mnd // default
		Logger:            zerolog.Nop(),
	}
}

func (opt ClientOptions) apply(options *clientOptions) {
	options.BaseURL = opt.BaseURL
	options.APIKey = opt.APIKey
	if opt.Timeout > 0 {
		options.Timeout = opt.Timeout
	}
	if opt.RequestsPerSecond != 0 {
		options.RequestsPerSecond = opt.RequestsPerSecond
	}
	if opt.HTTPClient != nil {
		options.HTTPClient = opt.HTTPClient
	}
	if opt.Logger != nil {
		options.Logger = *opt.Logger
	}
}

func (opt clientOptions) validate() error {
	if opt.BaseURL == "" {
		return eris.New("base URL is required")
	}
	u, err := url.Parse(opt.BaseURL)
	if err != nil {
		return eris.Wrap(err, "invalid base URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return eris.Errorf("base URL must be http or https, got %q", u.Scheme)
	}
	if opt.APIKey == "" {
		return eris.New("API key is required")
	}
	return nil
}
