package fetch

import (
	"fmt"
	"net/http"
	"time"
)

// DefaultUserAgent identifies requests made by the fetchers.
const DefaultUserAgent = "feedrank/1.0 (RSS Reader)"

// DefaultTimeout bounds a whole request when the caller's context does not.
const DefaultTimeout = 30 * time.Second

type options struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	maxBytes  int64
}

func defaultOptions() *options {
	return &options{
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		maxBytes:  5 << 20,
	}
}

// Option configures a fetcher.
type Option func(*options) error

// WithHTTPClient sets the HTTP client. Its own timeout takes precedence.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) error {
		o.client = client
		return nil
	}
}

// WithUserAgent sets the User-Agent header.
// Default is DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(o *options) error {
		if ua == "" {
			return fmt.Errorf("%w: empty user agent", ErrInvalidOption)
		}
		o.userAgent = ua
		return nil
	}
}

// WithTimeout sets the timeout of the default HTTP client.
// Default is 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("%w: timeout %v", ErrInvalidOption, d)
		}
		o.timeout = d
		return nil
	}
}

// WithMaxBytes caps the size of a downloaded article.
// Default is 5 MiB.
func WithMaxBytes(n int64) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("%w: max bytes %d", ErrInvalidOption, n)
		}
		o.maxBytes = n
		return nil
	}
}

func applyOptions(opts []Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}
	return o, nil
}
