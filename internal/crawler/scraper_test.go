package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/pkg/httpclient"
	"github.com/wwntg/news-harvester/pkg/providers"
)

// stubHTTPResponse implements httpclient.Response.
type stubHTTPResponse struct {
	body       []byte
	statusCode int
}

func (s stubHTTPResponse) Body() []byte    { return s.body }
func (s stubHTTPResponse) StatusCode() int { return s.statusCode }

// stubHTTPClient returns a single response or error and records the request.
type stubHTTPClient struct {
	resp    httpclient.Response
	err     error
	calls   int
	url     string
	headers map[string]string
}

func (s *stubHTTPClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	s.calls++
	s.url = url
	s.headers = headers
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

var fixedNow = time.Date(2024, 6, 10, 8, 0, 0, 500_000_000, time.UTC)

func newTestScraper(target Target, extractor providers.Extractor, client httpclient.Client) *Scraper {
	s := NewScraper(target, extractor, client, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestScraperParsesLocalFixture(t *testing.T) {
	client := &stubHTTPClient{}
	s := newTestScraper(Target{
		Source:  domain.SourceWorld,
		Address: filepath.Join("testdata", "world_front.html"),
		BaseURL: "https://www.bbc.com/news",
	}, providers.NewWorldExtractor(nil), client)

	batch, err := s.FetchAndParse(context.Background())
	if err != nil {
		t.Fatalf("FetchAndParse: %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("local file must not hit the network")
	}
	if batch.Len() != 3 {
		t.Fatalf("expected 3 articles, got %d: %#v", batch.Len(), batch.Articles)
	}
	if batch.Articles[0].URL != "https://www.bbc.com/news/articles/w1" {
		t.Fatalf("relative link not resolved: %q", batch.Articles[0].URL)
	}
	if batch.Articles[2].Body != "" {
		t.Fatalf("missing summary should be empty, got %q", batch.Articles[2].Body)
	}
	if batch.FetchedAt != 1718006400.5 {
		t.Fatalf("FetchedAt = %v", batch.FetchedAt)
	}
}

func TestScraperRemotePage(t *testing.T) {
	page, err := os.ReadFile(filepath.Join("testdata", "world_front.html"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	client := &stubHTTPClient{resp: stubHTTPResponse{body: page, statusCode: http.StatusOK}}
	s := newTestScraper(Target{
		Source:  domain.SourceWorld,
		Address: "https://www.bbc.com/news",
		Headers: map[string]string{"User-Agent": "test"},
	}, providers.NewWorldExtractor(nil), client)

	batch, err := s.FetchAndParse(context.Background())
	if err != nil {
		t.Fatalf("FetchAndParse: %v", err)
	}
	if client.calls != 1 || client.url != "https://www.bbc.com/news" || client.headers["User-Agent"] != "test" {
		t.Fatalf("unexpected request: calls=%d url=%s headers=%v", client.calls, client.url, client.headers)
	}
	if batch.Len() != 3 {
		t.Fatalf("expected 3 articles, got %d", batch.Len())
	}
}

func TestScraperNon200YieldsEmptyBatch(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{body: []byte("gone"), statusCode: http.StatusNotFound}}
	s := newTestScraper(Target{Source: domain.SourceUA, Address: "https://www.bbc.com/ukrainian"},
		providers.NewUkrainianExtractor(nil), client)

	batch, err := s.FetchAndParse(context.Background())
	if err != nil {
		t.Fatalf("FetchAndParse: %v", err)
	}
	if batch.Articles == nil || batch.Len() != 0 {
		t.Fatalf("expected empty non-nil articles, got %#v", batch.Articles)
	}
	if batch.FetchedAt == 0 {
		t.Fatalf("empty batch must still carry a timestamp")
	}
}

func TestScraperTransportError(t *testing.T) {
	client := &stubHTTPClient{err: errors.New("dial tcp: no such host")}
	s := newTestScraper(Target{Source: domain.SourceUA, Address: "https://www.bbc.com/ukrainian"},
		providers.NewUkrainianExtractor(nil), client)

	if _, err := s.FetchAndParse(context.Background()); !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestScraperTransportErrorFromRealClient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	s := newTestScraper(Target{Source: domain.SourceWorld, Address: addr},
		providers.NewWorldExtractor(nil), httpclient.NewRestyClient(time.Second, 0))
	if _, err := s.FetchAndParse(context.Background()); !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestScraperMissingAnchorYieldsEmptyBatch(t *testing.T) {
	s := newTestScraper(Target{
		Source:  domain.SourceUA,
		Address: filepath.Join("testdata", "no_main.html"),
		BaseURL: "https://www.bbc.com/ukrainian",
	}, providers.NewUkrainianExtractor(nil), nil)

	batch, err := s.FetchAndParse(context.Background())
	if err != nil {
		t.Fatalf("FetchAndParse: %v", err)
	}
	if batch.Len() != 0 {
		t.Fatalf("expected no articles, got %d", batch.Len())
	}
}

func TestScraperMissingFile(t *testing.T) {
	s := newTestScraper(Target{Source: domain.SourceUA, Address: filepath.Join(t.TempDir(), "absent.html")},
		providers.NewUkrainianExtractor(nil), nil)
	if _, err := s.FetchAndParse(context.Background()); err == nil || errors.Is(err, ErrTransport) {
		t.Fatalf("expected file read error, got %v", err)
	}
}

func TestScraperRejectsOversizedRemotePage(t *testing.T) {
	client := &stubHTTPClient{err: fmt.Errorf("%w: https://www.bbc.com/news", httpclient.ErrBodyTooLarge)}
	s := newTestScraper(Target{Source: domain.SourceWorld, Address: "https://www.bbc.com/news"},
		providers.NewWorldExtractor(nil), client)

	_, err := s.FetchAndParse(context.Background())
	if !errors.Is(err, ErrPageTooLarge) {
		t.Fatalf("expected ErrPageTooLarge, got %v", err)
	}
	if errors.Is(err, ErrTransport) {
		t.Fatalf("oversized page must not be reported as a transport failure: %v", err)
	}
}

func TestScraperRejectsOversizedLocalPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.html")
	page := append([]byte(`<main><div data-testid="edinburgh-card"><a href="/a"><h2>Kept</h2></a></div></main>`),
		bytes.Repeat([]byte(" "), maxHTMLBodyBytes)...)
	if err := os.WriteFile(path, page, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s := newTestScraper(Target{Source: domain.SourceWorld, Address: path, BaseURL: "https://www.bbc.com/news"},
		providers.NewWorldExtractor(nil), &stubHTTPClient{})
	if _, err := s.FetchAndParse(context.Background()); !errors.Is(err, ErrPageTooLarge) {
		t.Fatalf("expected ErrPageTooLarge, got %v", err)
	}
}

func TestScraperLocalPageWithoutBaseKeepsHrefs(t *testing.T) {
	s := newTestScraper(Target{
		Source:  domain.SourceWorld,
		Address: filepath.Join("testdata", "world_front.html"),
	}, providers.NewWorldExtractor(nil), &stubHTTPClient{})

	batch, err := s.FetchAndParse(context.Background())
	if err != nil {
		t.Fatalf("FetchAndParse: %v", err)
	}
	if batch.Len() != 3 {
		t.Fatalf("expected 3 articles, got %d: %#v", batch.Len(), batch.Articles)
	}
	if batch.Articles[0].URL != "/news/articles/w1" {
		t.Fatalf("relative href should be kept as written, got %q", batch.Articles[0].URL)
	}
	if batch.Articles[2].URL != "https://www.bbc.com/future/article/w3" {
		t.Fatalf("absolute href changed: %q", batch.Articles[2].URL)
	}
}

func TestIsRemote(t *testing.T) {
	cases := map[string]bool{
		"https://www.bbc.com/news": true,
		"http://localhost:8080/":   true,
		"testdata/page.html":       false,
		"/var/pages/ua.html":       false,
		"ftp://example.com/page":   false,
	}
	for addr, want := range cases {
		if got := isRemote(addr); got != want {
			t.Errorf("isRemote(%q) = %v, want %v", addr, got, want)
		}
	}
}

func TestNewScrapersPairsExtractors(t *testing.T) {
	sources := providers.DefaultSources().Enabled()
	scrapers, err := NewScrapers(sources, providers.DefaultExtractorRegistry(nil), &stubHTTPClient{}, "harvester-test", nil)
	if err != nil {
		t.Fatalf("NewScrapers: %v", err)
	}
	if len(scrapers) != len(sources) {
		t.Fatalf("expected %d scrapers, got %d", len(sources), len(scrapers))
	}
	for i, s := range scrapers {
		if s.Source() != sources[i].Source || s.extractor.Source() != sources[i].Source {
			t.Fatalf("scraper %d paired with wrong extractor", i)
		}
		if s.target.Headers["User-Agent"] != "harvester-test" {
			t.Fatalf("user agent not applied: %v", s.target.Headers)
		}
	}

	if _, err := NewScrapers(sources, providers.NewExtractorRegistry(), nil, "", nil); err == nil {
		t.Fatalf("expected error when no extractor is registered")
	}
}
