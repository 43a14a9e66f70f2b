package providers

import (
	"fmt"
	"sync"
	"time"

	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/internal/logger"
	"github.com/wwntg/news-harvester/pkg/httpclient"
)

// extractorRegistry implements ExtractorRegistry.
type extractorRegistry struct {
	mu         sync.RWMutex
	extractors map[domain.SourceID]Extractor
}

// NewExtractorRegistry builds a registry keyed by each extractor's source.
// A later extractor for the same source replaces an earlier one.
func NewExtractorRegistry(extractors ...Extractor) ExtractorRegistry {
	reg := &extractorRegistry{extractors: make(map[domain.SourceID]Extractor, len(extractors))}
	for _, e := range extractors {
		reg.register(e)
	}
	return reg
}

func (r *extractorRegistry) register(e Extractor) {
	if e == nil || !e.Source().Valid() {
		return
	}
	r.mu.Lock()
	r.extractors[e.Source()] = e
	r.mu.Unlock()
}

// ExtractorFor returns the extractor registered for id.
func (r *extractorRegistry) ExtractorFor(id domain.SourceID) (Extractor, error) {
	if r == nil {
		return nil, fmt.Errorf("extractor registry is nil")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.extractors[id]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("no extractor registered for source %s", id)
}

// DefaultHTTPClient returns a resty-backed client with the given fetch timeout.
func DefaultHTTPClient(timeout time.Duration) HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return httpclient.NewRestyClient(timeout, httpclient.MaxPageBytes)
}

// DefaultExtractorRegistry wires up the built-in extractor for every source.
func DefaultExtractorRegistry(log logger.Logger) ExtractorRegistry {
	return NewExtractorRegistry(
		NewWorldExtractor(log),
		NewUkrainianExtractor(log),
	)
}
