package legislation

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

const authorityBaseURL = "https://www.legislation.gov.uk"

// Fetcher retrieves a URL's body, the same minimal capability C5's
// resources-page scrape depends on — satisfied directly by
// httpclient.Client so listing-page requests go through C1's cache,
// rate limiter, circuit breaker, and retry middleware.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// CompletedCombinations reports whether a "<type>_<year>" combination was
// already fully drained in a prior run, letting Enumerate skip it without
// issuing a single request.
type CompletedCombinations interface {
	IsCombinationComplete(key string) bool
}

var (
	anchorHrefPattern   = regexp.MustCompile(`<a\s[^>]*href="([^"]+)"`)
	nextPageHrefPattern = regexp.MustCompile(`<a\s[^>]*title="next page"[^>]*href="([^"]+)"|<a\s[^>]*href="([^"]+)"[^>]*title="next page"`)
	noResultsPattern    = regexp.MustCompile(`class="warning"[^>]*>([^<]*(?:<[^a][^>]*>[^<]*)*)`)
)

// Enumerate walks the authority site's listing pages for every requested
// (type, year) combination and returns a channel of canonical data.xml
// URLs, closed once enumeration finishes or ctx is canceled. Types with no
// historical presence in a given year (Type.ActiveInYear) never generate
// a request. limit, if > 0, caps the total number of URLs yielded across
// every combination.
//
// Enumerate is a pure generator: it issues GETs through fetcher and reads
// `completed` to skip whole combinations, but never itself records
// progress — callers own marking individual URLs processed/failed and
// marking a combination complete once its channel is drained.
func Enumerate(ctx context.Context, fetcher Fetcher, types []Type, years []int, limit int, completed CompletedCombinations) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)
		yielded := 0

		for _, year := range years {
			for _, typ := range types {
				if !typ.ActiveInYear(year) {
					continue
				}
				key := fmt.Sprintf("%s_%d", typ, year)
				if completed != nil && completed.IsCombinationComplete(key) {
					slog.Debug("legislation: skipping completed combination", "combination", key)
					continue
				}

				for url := range enumerateTypeYear(ctx, fetcher, typ, year) {
					select {
					case out <- url:
						yielded++
						if limit > 0 && yielded >= limit {
							return
						}
					case <-ctx.Done():
						return
					}
				}

				if ctx.Err() != nil {
					return
				}
			}
		}
	}()

	return out
}

// enumerateTypeYear walks one (type, year)'s paginated listing, yielding
// the data.xml URL for every item found. A fetch failure (after C1's
// internal retries are exhausted) or an empty/"no items" listing simply
// ends this combination's channel; the caller moves on to the next
// combination rather than failing the whole run.
func enumerateTypeYear(ctx context.Context, fetcher Fetcher, typ Type, year int) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		nextURL := fmt.Sprintf("%s/%s/%d", authorityBaseURL, typ, year)
		for nextURL != "" {
			body, err := fetcher.Get(ctx, nextURL)
			if err != nil {
				slog.Warn("legislation: listing page request failed, stopping pagination",
					"url", nextURL, "type", typ, "year", year, "error", err)
				return
			}

			if isEmptyListing(body) {
				slog.Info("legislation: no items found", "type", typ, "year", year)
				return
			}

			for _, href := range extractContentURLs(body, string(typ)) {
				select {
				case out <- dataXMLURL(href):
				case <-ctx.Done():
					return
				}
			}

			nextURL = nextPageURL(body)
		}
	}()

	return out
}

func isEmptyListing(body []byte) bool {
	m := noResultsPattern.FindSubmatch(body)
	if m == nil {
		return false
	}
	text := string(m[1])
	return strings.Contains(text, "No items found for") ||
		strings.Contains(text, "Sorry, but we cannot satisfy your request")
}

// extractContentURLs pulls every href on the page that points at a
// content page for legislationType ("/ukpga/2023/1/contents" or
// ".../contents/made"), discarding navigation/chrome links. Absent a
// reason to carry a full HTML parser for what the authority site renders
// as simple anchor lists, this mirrors C5's resources-page scrape: plain
// regex scanning over the raw body.
func extractContentURLs(body []byte, legislationType string) []string {
	prefix := "/" + legislationType
	var urls []string
	for _, m := range anchorHrefPattern.FindAllSubmatch(body, -1) {
		href := string(m[1])
		if !strings.HasPrefix(href, prefix) {
			continue
		}
		if strings.HasSuffix(href, "/contents") || strings.HasSuffix(href, "/contents/made") {
			urls = append(urls, authorityBaseURL+href)
		}
	}
	return urls
}

func nextPageURL(body []byte) string {
	m := nextPageHrefPattern.FindSubmatch(body)
	if m == nil {
		return ""
	}
	href := m[1]
	if len(href) == 0 {
		href = m[2]
	}
	if len(href) == 0 {
		return ""
	}
	return authorityBaseURL + string(href)
}

// CanonicalDataURL builds the data.xml URL for a document id of the form
// "type/year/number", the inverse of the listing-page scrape Enumerate
// performs — used wherever a caller already knows which document it wants
// (C9's amendment-led refresh) instead of discovering it by crawling.
func CanonicalDataURL(id DocumentID) (string, bool) {
	typ, year, number, ok := id.Split()
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s/%s/%d/%d/data.xml", authorityBaseURL, typ, year, number), true
}

// dataXMLURL converts a content URL (with or without a trailing
// /contents or /contents/made) to its canonical data.xml URL.
func dataXMLURL(url string) string {
	url = strings.TrimSuffix(url, "/")
	if strings.HasSuffix(url, "/data.xml") {
		return url
	}
	if i := strings.Index(url, "/contents"); i != -1 {
		url = url[:i]
	}
	return url + "/data.xml"
}
