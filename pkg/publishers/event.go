package publishers

import (
	"time"

	"github.com/wwntg/news-harvester/internal/domain"
)

// Event announces that a source's snapshot was replaced.
type Event struct {
	Source       string    `json:"source"`
	Label        string    `json:"label"`
	Key          string    `json:"key"`
	ArticleCount int       `json:"article_count"`
	FetchedAt    float64   `json:"fetched_at"`
	EmittedAt    time.Time `json:"emitted_at"`
}

// NewEvent constructs an Event for the snapshot stored under key.
func NewEvent(source domain.SourceID, key string, batch domain.Batch) Event {
	return Event{
		Source:       source.Name(),
		Label:        source.Label(),
		Key:          key,
		ArticleCount: batch.Len(),
		FetchedAt:    batch.FetchedAt,
		EmittedAt:    time.Now().UTC(),
	}
}

// attributes are attached as message attributes by the queue publishers.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"source": e.Source,
		"key":    e.Key,
	}
}
