package domain

import (
	"math"
	"time"
)

// Domain contains core models and interfaces.

// Article is a single story extracted from a listing page. All fields are
// plain text and default to "" when the source did not provide them.
type Article struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
	URL   string `json:"url" yaml:"url"`
}

// Summary returns at most max runes of the article body.
func (a Article) Summary(max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(a.Body)
	if len(runes) <= max {
		return a.Body
	}
	return string(runes[:max])
}

// Batch is the persisted unit: every article taken from one page, stamped
// with the time the page was parsed.
type Batch struct {
	FetchedAt float64   `json:"fetched_at" yaml:"fetched_at"`
	Articles  []Article `json:"articles" yaml:"articles"`
}

// NewBatch stamps articles with t. A nil slice becomes an empty one so that an
// empty batch is still a present (not absent) snapshot.
func NewBatch(t time.Time, articles []Article) Batch {
	if articles == nil {
		articles = []Article{}
	}
	return Batch{
		FetchedAt: float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second),
		Articles:  articles,
	}
}

// Len returns the number of articles in the batch.
func (b Batch) Len() int { return len(b.Articles) }

// Time converts FetchedAt back into a time.Time.
func (b Batch) Time() time.Time {
	sec, frac := math.Modf(b.FetchedAt)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}
