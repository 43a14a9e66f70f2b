package providers

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/internal/logger"
)

const (
	worldDefaultAddress = "https://www.bbc.com/news"
	worldCardSelector   = `div[data-testid="edinburgh-card"]`
)

// worldExtractor parses BBC News cards marked with data-testid="edinburgh-card".
type worldExtractor struct {
	log logger.Logger
}

// NewWorldExtractor builds the extractor for the world news source.
func NewWorldExtractor(log logger.Logger) Extractor {
	return &worldExtractor{log: logger.Ensure(log)}
}

func (e *worldExtractor) Source() domain.SourceID { return domain.SourceWorld }

func (e *worldExtractor) Extract(base *url.URL, doc *goquery.Document) ([]domain.Article, error) {
	articles := make([]domain.Article, 0)
	doc.Find(worldCardSelector).Each(func(i int, card *goquery.Selection) {
		art, err := e.card(base, card)
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

func (e *worldExtractor) card(base *url.URL, card *goquery.Selection) (domain.Article, error) {
	heading := card.Find("h2").First()
	if heading.Length() == 0 {
		return domain.Article{}, errMissingHeading
	}
	title := CollapseSpace(heading.Text())
	if title == "" {
		return domain.Article{}, errMissingHeading
	}

	href, ok := card.Find("a[href]").First().Attr("href")
	if !ok {
		return domain.Article{}, errMissingLink
	}
	link, err := ResolveLink(base, href)
	if err != nil {
		return domain.Article{}, err
	}

	return domain.Article{
		Title: title,
		Body:  CollapseSpace(card.Find("p").First().Text()),
		URL:   link,
	}, nil
}
