package providers

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/pkg/httpclient"
)

// Extractor turns one source's listing page into articles.
// Concrete implementations live in source-specific files (e.g., bbc_world.go).
// Implementations must not touch the network or storage.
type Extractor interface {
	Source() domain.SourceID
	Extract(base *url.URL, doc *goquery.Document) ([]domain.Article, error)
}

// ExtractorRegistry resolves the extractor bound to a source.
type ExtractorRegistry interface {
	ExtractorFor(id domain.SourceID) (Extractor, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within providers.
type HTTPClient = httpclient.Client
