package httpclient

import (
	"context"
	"net/http"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// OK reports whether resp carries a 200 status.
func OK(resp Response) bool {
	return resp != nil && resp.StatusCode() == http.StatusOK
}
