package scraper

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"model-tracker/internal/resilience/circuitbreaker"
	"model-tracker/internal/utils/text"
)

// Page is what research keeps from an announcement page.
type Page struct {
	URL         string
	Title       string
	ImageURL    string
	Description string
	Text        string
}

// PageFetcher downloads announcement pages with SSRF protection on the
// initial URL and on every redirect hop.
type PageFetcher struct {
	http *guardedClient
	cfg  Config
}

// NewPageFetcher creates a page fetcher.
func NewPageFetcher(cfg Config, breakers *circuitbreaker.Registry) *PageFetcher {
	f := &PageFetcher{cfg: cfg}
	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        50,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.cfg.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), f.cfg.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	f.http = newGuardedClient("announcement-page", client, cfg, breakers)
	return f
}

// Fetch downloads pageURL and extracts its Open Graph image and
// description and its readable text.
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	if err := validateURL(pageURL, f.cfg.DenyPrivateIPs); err != nil {
		return nil, err
	}

	resp, err := f.http.do(ctx, "page", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	return parsePage(resp.body, resp.finalURL, f.cfg.MaxExcerptChars)
}

func parsePage(body []byte, pageURL *url.URL, maxChars int) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	page := &Page{
		URL:         pageURL.String(),
		Title:       firstNonEmpty(metaContent(doc, "og:title"), strings.TrimSpace(doc.Find("title").First().Text())),
		Description: firstNonEmpty(metaContent(doc, "og:description"), metaContent(doc, "description")),
	}
	if img := firstNonEmpty(metaContent(doc, "og:image"), metaContent(doc, "twitter:image")); img != "" {
		page.ImageURL = resolveURL(pageURL, img)
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil {
		page.Text = text.Truncate(text.CollapseWhitespace(article.TextContent), maxChars)
		if page.Title == "" {
			page.Title = article.Title
		}
	}
	if page.Text == "" && page.Description == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoReadableContent, pageURL)
	}
	return page, nil
}

// metaContent reads <meta property=name> or <meta name=name>.
func metaContent(doc *goquery.Document, name string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, name, name)).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

func resolveURL(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
