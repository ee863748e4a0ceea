package checklist

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"
)

// FetchRequest describes one GET against a remote API.
type FetchRequest struct {
	URL     string
	Query   url.Values
	Headers http.Header
}

// FetchResponse is the raw result returned by a Fetcher implementation.
type FetchResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// OK reports whether the response carries a 2xx status.
func (r FetchResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Fetcher performs a GET and returns the body plus metadata. Non-2xx
// responses are returned without error; only transport failures are errors.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// BlobStore writes a rendered artifact and returns where it landed.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
}

// Publisher announces a generated site to downstream listeners.
type Publisher interface {
	Publish(ctx context.Context, payload any) (string, error)
}

// Hasher computes content digests.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs.
type IDGenerator interface {
	NewID() (string, error)
}
