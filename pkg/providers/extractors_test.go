package providers

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/mattn/go-runewidth"
	"github.com/wwntg/news-harvester/internal/domain"
)

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func docFromString(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestWorldExtractorSkipsCardWithoutLink(t *testing.T) {
	base, err := NormalizeBaseURL(worldDefaultAddress)
	if err != nil {
		t.Fatalf("NormalizeBaseURL: %v", err)
	}

	articles, err := NewWorldExtractor(nil).Extract(base, loadFixture(t, "bbc_world.html"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := []domain.Article{
		{
			Title: "Ceasefire talks resume in Cairo",
			Body:  "Negotiators return to the table after a week-long pause.",
			URL:   "https://www.bbc.com/news/articles/c1",
		},
		{
			Title: "Cup final goes to penalties",
			Body:  "A dramatic evening at Wembley.",
			URL:   "https://www.bbc.com/sport/football/c2",
		},
		{
			Title: "Storm warning issued",
			Body:  "",
			URL:   "https://www.bbc.com/news/articles/c3",
		},
	}
	if len(articles) != len(want) {
		t.Fatalf("expected %d articles, got %d: %#v", len(want), len(articles), articles)
	}
	for i := range want {
		if articles[i] != want[i] {
			t.Errorf("article[%d] = %#v, want %#v", i, articles[i], want[i])
		}
	}
}

func TestUkrainianExtractorAppliesCasingAndWrap(t *testing.T) {
	base, err := NormalizeBaseURL(ukrainianDefaultAddress)
	if err != nil {
		t.Fatalf("NormalizeBaseURL: %v", err)
	}

	articles, err := NewUkrainianExtractor(nil).Extract(base, loadFixture(t, "bbc_ukrainian.html"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("expected 3 articles, got %d: %#v", len(articles), articles)
	}

	first := articles[0]
	if first.Title != "Зсу Відбили Атаку На Сході" {
		t.Errorf("title = %q", first.Title)
	}
	if first.URL != "https://www.bbc.com/ukrainian/articles/c100" {
		t.Errorf("url = %q", first.URL)
	}
	const body = "Генштаб повідомляє про успішну оборону на кількох напрямках фронту протягом минулої доби."
	if got := strings.ReplaceAll(first.Body, "\n", " "); got != body {
		t.Errorf("body = %q", first.Body)
	}
	if !strings.Contains(first.Body, "\n") {
		t.Errorf("expected wrapped body, got %q", first.Body)
	}
	for _, line := range strings.Split(first.Body, "\n") {
		if w := runewidth.StringWidth(line); w > ukrainianWrapWidth {
			t.Errorf("line %q is %d columns wide", line, w)
		}
	}

	if articles[1].Title != "Як Живе Прифронтове Місто" || articles[1].Body != "Репортаж з Харкова." {
		t.Errorf("unexpected second article %#v", articles[1])
	}
	if articles[1].URL != "https://www.bbc.com/ukrainian/features-c200" {
		t.Errorf("absolute link rewritten: %q", articles[1].URL)
	}
	if articles[2].Body != "" || articles[2].URL != "https://www.bbc.com/ukrainian/articles/c300" {
		t.Errorf("unexpected third article %#v", articles[2])
	}
}

func TestUkrainianExtractorMissingMain(t *testing.T) {
	base, _ := NormalizeBaseURL(ukrainianDefaultAddress)
	doc := docFromString(t, `<html><body><section><h3><a href="/x">T</a></h3></section></body></html>`)

	_, err := NewUkrainianExtractor(nil).Extract(base, doc)
	if !errors.Is(err, ErrAnchorNotFound) {
		t.Fatalf("expected ErrAnchorNotFound, got %v", err)
	}
}

func TestExtractorsReturnEmptyWhenNoCards(t *testing.T) {
	base, _ := NormalizeBaseURL("https://www.bbc.com/news")
	doc := docFromString(t, `<html><body><main><p>Nothing here today.</p></main></body></html>`)

	for _, e := range []Extractor{NewWorldExtractor(nil), NewUkrainianExtractor(nil)} {
		articles, err := e.Extract(base, doc)
		if err != nil {
			t.Fatalf("%s Extract: %v", e.Source(), err)
		}
		if articles == nil || len(articles) != 0 {
			t.Fatalf("%s: expected empty non-nil slice, got %#v", e.Source(), articles)
		}
	}
}

func TestDefaultExtractorRegistry(t *testing.T) {
	reg := DefaultExtractorRegistry(nil)
	for _, id := range domain.AllSources() {
		e, err := reg.ExtractorFor(id)
		if err != nil {
			t.Fatalf("ExtractorFor(%s): %v", id, err)
		}
		if e.Source() != id {
			t.Fatalf("ExtractorFor(%s) returned %s extractor", id, e.Source())
		}
	}
	if _, err := reg.ExtractorFor(domain.SourceID(42)); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}
