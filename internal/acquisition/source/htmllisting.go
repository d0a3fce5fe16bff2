package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bibliometric-api/internal/core"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// HTMLListingSource models the shape of a real ACM/SAGE/ScienceDirect-style
// adapter: it receives an HTML search-results page and scrapes Publication
// fields out of it with goquery selectors, the same library and pattern
// the prior internal/fetch package uses to pull a title and main
// content out of a fetched page. Unlike a production adapter it never
// performs an HTTP(S) GET itself (concrete web-scraping / vendor-API
// integrations stay out of scope); page returns the markup to scrape,
// letting tests and the default wiring supply a deterministic fixture
// while still exercising the real parsing path a vendor adapter would use.
type HTMLListingSource struct {
	name      string
	rateLimit time.Duration
	page      func(q Query) string
}

// NewHTMLListingSource constructs an adapter that scrapes whatever markup
// page returns for each query. NewDeterministicHTMLListingSource supplies
// a page function good enough to stand in for a real vendor page in
// tests and local runs.
func NewHTMLListingSource(name string, rateLimit time.Duration, page func(q Query) string) *HTMLListingSource {
	return &HTMLListingSource{name: name, rateLimit: rateLimit, page: page}
}

// NewDeterministicHTMLListingSource builds an HTMLListingSource whose page
// function renders a synthetic results listing from the query text, so the
// adapter is usable without a live vendor endpoint.
func NewDeterministicHTMLListingSource(name string, rateLimit time.Duration) *HTMLListingSource {
	return NewHTMLListingSource(name, rateLimit, renderListingFixture)
}

func (h *HTMLListingSource) Name() string { return h.name }

func (h *HTMLListingSource) RateLimit() time.Duration { return h.rateLimit }

func (h *HTMLListingSource) Search(ctx context.Context, q Query) (<-chan core.Publication, <-chan error) {
	out := make(chan core.Publication)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		html := h.page(q)
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			errs <- fmt.Errorf("%s: parsing result listing: %w", h.name, err)
			return
		}

		max := q.MaxResults
		n := 0
		var parseErr error
		doc.Find(".result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
			if max > 0 && n >= max {
				return false
			}
			select {
			case <-ctx.Done():
				parseErr = ctx.Err()
				return false
			default:
			}

			pub, err := publicationFromSelection(h.name, i, sel)
			if err != nil {
				parseErr = err
				return false
			}

			select {
			case out <- pub:
				n++
			case <-ctx.Done():
				parseErr = ctx.Err()
				return false
			}
			return true
		})

		if parseErr != nil {
			errs <- fmt.Errorf("%s: search cancelled: %w", h.name, parseErr)
		}
	}()

	return out, errs
}

// publicationFromSelection scrapes one ".result" node into a Publication,
// mirroring a defensive-default parsing style: any
// field the markup omits is simply left at its zero value rather than
// erroring the whole record.
func publicationFromSelection(sourceName string, index int, sel *goquery.Selection) (core.Publication, error) {
	title := strings.TrimSpace(sel.Find(".title").First().Text())
	if title == "" {
		return core.Publication{}, fmt.Errorf("result %d has no .title element", index)
	}

	abstract := strings.TrimSpace(sel.Find(".abstract").First().Text())
	doi, _ := sel.Find(".doi").Attr("data-doi")
	journal := strings.TrimSpace(sel.Find(".journal").First().Text())
	url, _ := sel.Find("a.title").Attr("href")

	var authors []core.Author
	sel.Find(".author").Each(func(_ int, a *goquery.Selection) {
		if name := strings.TrimSpace(a.Text()); name != "" {
			authors = append(authors, core.Author{Name: name})
		}
	})

	var keywords []string
	sel.Find(".keyword").Each(func(_ int, k *goquery.Selection) {
		if kw := strings.TrimSpace(k.Text()); kw != "" {
			keywords = append(keywords, kw)
		}
	})

	var year *int
	if yearText := strings.TrimSpace(sel.Find(".year").First().Text()); yearText != "" {
		if y, err := strconv.Atoi(yearText); err == nil {
			year = &y
		}
	}

	return core.Publication{
		ID:              uuid.NewString(),
		DOI:             doi,
		Title:           title,
		Abstract:        abstract,
		Authors:         authors,
		Keywords:        keywords,
		Year:            year,
		Journal:         journal,
		Source:          sourceName,
		PublicationType: "article",
		URL:             url,
		DateAcquired:    time.Now(),
	}, nil
}

// renderListingFixture synthesizes a small HTML results page shaped like
// a real vendor listing, from the query text alone, so the adapter has
// something deterministic to scrape without a network call.
func renderListingFixture(q Query) string {
	n := q.MaxResults
	if n <= 0 {
		n = 5
	}
	if n > 25 {
		n = 25
	}
	year := 2023
	if q.YearMin > 0 {
		year = q.YearMin
	}

	var b strings.Builder
	b.WriteString("<html><body><div class=\"results\">")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<div class="result">
			<a class="title" href="https://example.invalid/html-listing/%d">%s: a scraped study (result %d)</a>
			<div class="abstract">A scraped summary discussing %s and its measured effects.</div>
			<span class="doi" data-doi="10.8888/html-%d"></span>
			<span class="journal">Proceedings on %s</span>
			<span class="year">%d</span>
			<span class="author">A. Scraper</span>
			<span class="keyword">%s</span>
		</div>`, i, q.Text, i, q.Text, i, q.Text, year, q.Text)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}
