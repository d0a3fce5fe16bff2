package source

import (
	"context"
	"testing"
)

func TestHTMLListingSource_ScrapesFixtureListing(t *testing.T) {
	src := NewDeterministicHTMLListingSource("html_listing", 0)

	out, errs := src.Search(context.Background(), Query{Text: "diffusion models", MaxResults: 3})

	var pubs []string
	for p := range out {
		if p.Title == "" {
			t.Error("scraped publication has empty title")
		}
		if p.Source != "html_listing" {
			t.Errorf("source = %q, want html_listing", p.Source)
		}
		if p.DOI == "" {
			t.Error("scraped publication has empty doi")
		}
		pubs = append(pubs, p.Title)
	}
	if err, ok := <-errs; ok && err != nil {
		t.Fatalf("unexpected search error: %v", err)
	}
	if len(pubs) != 3 {
		t.Fatalf("got %d publications, want 3", len(pubs))
	}
}

func TestHTMLListingSource_MalformedPageReportsError(t *testing.T) {
	src := NewHTMLListingSource("broken", 0, func(q Query) string {
		return `<html><body><div class="result"><div class="abstract">no title here</div></div></body></html>`
	})

	out, errs := src.Search(context.Background(), Query{Text: "x", MaxResults: 1})
	for range out {
		t.Error("expected no publications from a titleless result")
	}
	err, ok := <-errs
	if !ok || err == nil {
		t.Fatal("expected a scrape error for a result missing .title")
	}
}
