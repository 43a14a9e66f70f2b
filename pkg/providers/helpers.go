package providers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrAnchorNotFound means the page lacks the container every card hangs off.
var ErrAnchorNotFound = errors.New("document anchor not found")

var (
	errMissingHeading = errors.New("card has no heading")
	errMissingLink    = errors.New("card has no heading link")
)

// NormalizeBaseURL reduces raw to its scheme+host root ("https://www.bbc.com/").
func NormalizeBaseURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", raw)
	}
	return &url.URL{Scheme: parsed.Scheme, Host: parsed.Host, Path: "/"}, nil
}

// ResolveLink resolves href against base. Absolute hrefs are returned as-is.
func ResolveLink(base *url.URL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", errMissingLink
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", href, err)
	}
	if base == nil {
		return ref.String(), nil
	}
	return base.ResolveReference(ref).String(), nil
}

// CollapseSpace trims s and folds every whitespace run into one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TitleCase upper-cases the first letter of every word, lower-casing the rest.
func TitleCase(s string) string {
	return cases.Title(language.Ukrainian).String(s)
}

// Wrap word-wraps text so that no line is wider than width terminal columns.
// Words wider than width are split.
func Wrap(text string, width int) string {
	words := strings.Fields(text)
	if width <= 0 || len(words) == 0 {
		return strings.Join(words, " ")
	}

	var (
		lines     []string
		line      strings.Builder
		lineWidth int
	)
	flush := func() {
		if line.Len() == 0 {
			return
		}
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, word := range words {
		for _, chunk := range splitWide(word, width) {
			w := runewidth.StringWidth(chunk)
			if lineWidth > 0 && lineWidth+1+w > width {
				flush()
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(chunk)
			lineWidth += w
		}
	}
	flush()

	return strings.Join(lines, "\n")
}

func splitWide(word string, width int) []string {
	if runewidth.StringWidth(word) <= width {
		return []string{word}
	}
	var (
		out []string
		b   strings.Builder
		w   int
	)
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if w > 0 && w+rw > width {
			out = append(out, b.String())
			b.Reset()
			w = 0
		}
		b.WriteRune(r)
		w += rw
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}
