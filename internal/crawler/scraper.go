package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/internal/logger"
	"github.com/wwntg/news-harvester/pkg/httpclient"
	"github.com/wwntg/news-harvester/pkg/providers"
)

const maxHTMLBodyBytes = httpclient.MaxPageBytes

var (
	// ErrTransport marks a fetch that failed below HTTP (DNS, connect, timeout).
	ErrTransport = errors.New("fetch transport failure")
	// ErrPageTooLarge marks a page over maxHTMLBodyBytes; it is rejected whole.
	ErrPageTooLarge = errors.New("page too large")
)

// Target is where a scraper reads its page from.
type Target struct {
	Source domain.SourceID
	// Address is an http(s) URL or a local file path.
	Address string
	// BaseURL resolves relative links; defaults to Address.
	BaseURL string
	Headers map[string]string
}

// Scraper fetches one source's listing page and hands it to the source's extractor.
type Scraper struct {
	target    Target
	extractor providers.Extractor
	client    httpclient.Client
	log       logger.Logger
	now       func() time.Time
}

// NewScraper constructs a scraper with the provided HTTP client (or default).
func NewScraper(target Target, extractor providers.Extractor, client httpclient.Client, log logger.Logger) *Scraper {
	if client == nil {
		client = providers.DefaultHTTPClient(0)
	}
	return &Scraper{
		target:    target,
		extractor: extractor,
		client:    client,
		log:       logger.Ensure(log),
		now:       time.Now,
	}
}

func (s *Scraper) Source() domain.SourceID { return s.target.Source }
func (s *Scraper) Address() string         { return s.target.Address }

// FetchAndParse reads the page and extracts its articles. A non-200 response
// or an unparseable page yields an empty batch; transport, file-read and
// oversized-page failures are returned.
func (s *Scraper) FetchAndParse(ctx context.Context) (domain.Batch, error) {
	page, ok, err := s.load(ctx)
	if err != nil {
		return domain.Batch{}, err
	}

	var articles []domain.Article
	if ok {
		articles = s.parse(page)
	}
	return domain.NewBatch(s.now(), articles), nil
}

func (s *Scraper) load(ctx context.Context) ([]byte, bool, error) {
	if isRemote(s.target.Address) {
		return s.download(ctx)
	}
	return s.readFile()
}

func (s *Scraper) download(ctx context.Context) ([]byte, bool, error) {
	resp, err := s.client.Get(ctx, s.target.Address, s.target.Headers)
	if errors.Is(err, httpclient.ErrBodyTooLarge) {
		return nil, false, fmt.Errorf("%w: %w", ErrPageTooLarge, err)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %w", ErrTransport, s.target.Address, err)
	}

	if !httpclient.OK(resp) {
		s.log.WarnObj("page fetch returned non-200", "fetch_status", map[string]any{
			"source":  s.target.Source.Name(),
			"url":     s.target.Address,
			"status":  resp.StatusCode(),
			"snippet": snippet(resp.Body()),
		})
		return nil, false, nil
	}

	body := resp.Body()
	s.log.InfoObj("page fetched", "fetch_meta", map[string]any{
		"source": s.target.Source.Name(),
		"url":    s.target.Address,
		"bytes":  len(body),
	})
	return body, true, nil
}

func (s *Scraper) readFile() ([]byte, bool, error) {
	f, err := os.Open(s.target.Address)
	if err != nil {
		return nil, false, fmt.Errorf("read page %s: %w", s.target.Address, err)
	}
	defer f.Close()

	// One extra byte tells an oversized file apart from one exactly at the limit.
	data, err := io.ReadAll(io.LimitReader(f, maxHTMLBodyBytes+1))
	if err != nil {
		return nil, false, fmt.Errorf("read page %s: %w", s.target.Address, err)
	}
	if len(data) > maxHTMLBodyBytes {
		return nil, false, fmt.Errorf("%w: %s exceeds %d bytes", ErrPageTooLarge, s.target.Address, maxHTMLBodyBytes)
	}
	s.log.DebugObj("page read from file", "fetch_meta", map[string]any{
		"source": s.target.Source.Name(),
		"path":   s.target.Address,
		"bytes":  len(data),
	})
	return data, true, nil
}

// parse never fails: any page-level problem is logged and yields no articles.
func (s *Scraper) parse(page []byte) []domain.Article {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		s.parseFailed(fmt.Errorf("parse html: %w", err))
		return nil
	}

	articles, err := s.extractor.Extract(s.linkBase(), doc)
	if err != nil {
		s.parseFailed(err)
		return nil
	}
	return articles
}

// linkBase is BaseURL, else the page address, cut to its scheme and host. A
// local page without a usable base gets nil and keeps hrefs as written.
func (s *Scraper) linkBase() *url.URL {
	base := s.target.BaseURL
	if base == "" {
		base = s.target.Address
	}
	u, err := providers.NormalizeBaseURL(base)
	if err != nil {
		s.log.DebugObj("no link base, hrefs kept as written", "link_base", map[string]any{
			"source": s.target.Source.Name(),
			"base":   base,
		})
		return nil
	}
	return u
}

func (s *Scraper) parseFailed(err error) {
	s.log.ErrorObj("page parse failed", "parse_error", map[string]any{
		"source":  s.target.Source.Name(),
		"address": s.target.Address,
		"error":   err.Error(),
	})
}

func isRemote(address string) bool {
	u, err := url.Parse(strings.TrimSpace(address))
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 256 {
		s = s[:256]
	}
	return s
}

// NewScrapers builds a scraper for every source config, pairing each with its
// extractor from reg.
func NewScrapers(sources []providers.SourceConfig, reg providers.ExtractorRegistry, client httpclient.Client, userAgent string, log logger.Logger) ([]*Scraper, error) {
	out := make([]*Scraper, 0, len(sources))
	for _, cfg := range sources {
		extractor, err := reg.ExtractorFor(cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("resolve extractor for %s: %w", cfg.ID, err)
		}
		out = append(out, NewScraper(Target{
			Source:  cfg.Source,
			Address: cfg.Address,
			BaseURL: cfg.LinkBase(),
			Headers: providers.Headers(cfg, userAgent),
		}, extractor, client, log))
	}
	return out, nil
}
