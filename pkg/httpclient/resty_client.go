package httpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// MaxPageBytes is the default ceiling on a fetched page body (4 MiB).
const MaxPageBytes = 4 << 20

// ErrBodyTooLarge is returned when a response body exceeds the client's limit.
// The body is never buffered past the limit.
var ErrBodyTooLarge = errors.New("response body too large")

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a page client with the given timeout and body limit
// (<= 0 means MaxPageBytes). Retries stay disabled: every Get is exactly one
// request.
func NewRestyClient(timeout time.Duration, maxBodyBytes int) *RestyClient {
	if maxBodyBytes <= 0 {
		maxBodyBytes = MaxPageBytes
	}
	c := newRestyBaseClient(timeout)
	c.SetResponseBodyLimit(maxBodyBytes)
	return &RestyClient{client: c}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetRetryCount(0)
	return c
}

// Get performs one GET with the given headers. An oversized body yields
// ErrBodyTooLarge rather than a truncated page.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		if errors.Is(err, resty.ErrResponseBodyTooLarge) {
			return nil, fmt.Errorf("%w: %s", ErrBodyTooLarge, url)
		}
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
