package providers

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/internal/logger"
)

const (
	ukrainianDefaultAddress = "https://www.bbc.com/ukrainian"
	ukrainianWrapWidth      = 50
)

// ukrainianExtractor parses the BBC Ukrainian front page: every <section>
// under <main> with an <h3> is a story card.
type ukrainianExtractor struct {
	log logger.Logger
}

// NewUkrainianExtractor builds the extractor for the national news source.
func NewUkrainianExtractor(log logger.Logger) Extractor {
	return &ukrainianExtractor{log: logger.Ensure(log)}
}

func (e *ukrainianExtractor) Source() domain.SourceID { return domain.SourceUA }

func (e *ukrainianExtractor) Extract(base *url.URL, doc *goquery.Document) ([]domain.Article, error) {
	main := doc.Find("main").First()
	if main.Length() == 0 {
		return nil, fmt.Errorf("%s page: %w: <main>", e.Source(), ErrAnchorNotFound)
	}

	articles := make([]domain.Article, 0)
	main.Find("section").Each(func(i int, section *goquery.Selection) {
		heading := section.Find("h3").First()
		if heading.Length() == 0 {
			return
		}
		art, err := e.card(base, heading)
		if err != nil {
			e.log.WarnObj("card skipped", "card_error", map[string]any{
				"source": e.Source().Name(),
				"index":  i,
				"error":  err.Error(),
			})
			return
		}
		e.log.DebugObj("card extracted", "article", art)
		articles = append(articles, art)
	})

	return articles, nil
}

func (e *ukrainianExtractor) card(base *url.URL, heading *goquery.Selection) (domain.Article, error) {
	title := TitleCase(CollapseSpace(heading.Text()))
	if title == "" {
		return domain.Article{}, errMissingHeading
	}

	href, ok := heading.Find("a").First().Attr("href")
	if !ok {
		return domain.Article{}, errMissingLink
	}
	link, err := ResolveLink(base, href)
	if err != nil {
		return domain.Article{}, err
	}

	return domain.Article{
		Title: title,
		Body:  Wrap(CollapseSpace(heading.Next().Text()), ukrainianWrapWidth),
		URL:   link,
	}, nil
}
