// Package webscrape fetches company websites and extracts basic firmographic
// details from the landing page.
package webscrape

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// ErrNoWebsite is returned when discovery cannot find a plausible domain.
var ErrNoWebsite = eris.New("webscrape: no website found")

// userAgents is rotated per request to avoid trivial blocking.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
}

// PageInfo holds what could be extracted from a company landing page.
type PageInfo struct {
	Title       string
	Description string
	AboutText   string
	LinkedInURL string
	TwitterURL  string
	Email       string
	Phone       string
}

// Client defines the scraper operations used by the enrichment pipeline.
type Client interface {
	// Scrape fetches a website's landing page and extracts company details.
	Scrape(ctx context.Context, websiteURL string) (*PageInfo, error)
	// Discover probes candidate domains derived from a company name and
	// returns the first one that answers.
	Discover(ctx context.Context, companyName string) (string, error)
}

// Option configures the scraper client.
type Option func(*scraper)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *scraper) {
		s.http = hc
	}
}

// WithRateLimit sets the requests-per-minute budget.
func WithRateLimit(rpm float64) Option {
	return func(s *scraper) {
		if rpm > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rpm/60), 1)
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *scraper) {
		s.http.Timeout = d
	}
}

type scraper struct {
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new scraper client.
func NewClient(opts ...Option) Client {
	s := &scraper{
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(10.0/60), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *scraper) wait(ctx context.Context) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	jitter := time.Duration(200+rand.IntN(800)) * time.Millisecond
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(jitter):
	}
	return nil
}

// CleanURL normalizes a website value into a fetchable base URL.
func CleanURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(parsed.Host, "www.")
	return "https://" + host
}

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
)

func (s *scraper) Scrape(ctx context.Context, websiteURL string) (*PageInfo, error) {
	target := CleanURL(websiteURL)
	if target == "" {
		return nil, eris.Errorf("webscrape: invalid url %q", websiteURL)
	}

	if err := s.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "webscrape: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, eris.Wrap(err, "webscrape: create request")
	}
	req.Header.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "webscrape: fetch failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("webscrape: status %d for %s", resp.StatusCode, target)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "webscrape: parse html")
	}

	return extract(doc), nil
}

// extract pulls company details out of a parsed landing page.
func extract(doc *goquery.Document) *PageInfo {
	info := &PageInfo{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		info.Description = strings.TrimSpace(desc)
	}
	if info.Description == "" {
		if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
			info.Description = strings.TrimSpace(desc)
		}
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		switch {
		case info.LinkedInURL == "" && strings.Contains(href, "linkedin.com/company"):
			info.LinkedInURL = href
		case info.TwitterURL == "" && (strings.Contains(href, "twitter.com/") || strings.Contains(href, "x.com/")):
			info.TwitterURL = href
		case info.Email == "" && strings.HasPrefix(href, "mailto:"):
			info.Email = strings.TrimPrefix(href, "mailto:")
		case info.Phone == "" && strings.HasPrefix(href, "tel:"):
			info.Phone = strings.TrimPrefix(href, "tel:")
		}
	})

	// About section: first paragraph under an element whose id or class
	// mentions "about".
	about := doc.Find(`[id*="about"] p, [class*="about"] p`).First().Text()
	info.AboutText = strings.TrimSpace(about)

	bodyText := doc.Find("body").Text()
	if info.Email == "" {
		info.Email = emailRe.FindString(bodyText)
	}
	if info.Phone == "" {
		info.Phone = strings.TrimSpace(phoneRe.FindString(bodyText))
	}

	return info
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// candidateDomains derives plausible domains from a company name.
func candidateDomains(companyName string) []string {
	base := nonAlnumRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(companyName)), "")
	if base == "" {
		return nil
	}
	return []string{base + ".com", base + ".io", base + ".co"}
}

func (s *scraper) Discover(ctx context.Context, companyName string) (string, error) {
	for _, domain := range candidateDomains(companyName) {
		if err := s.wait(ctx); err != nil {
			return "", eris.Wrap(err, "webscrape: rate limit")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, "https://"+domain, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])

		resp, err := s.http.Do(req)
		if err != nil {
			continue
		}
		_ = resp.Body.Close()

		if resp.StatusCode < 400 {
			return "https://" + domain, nil
		}
	}
	return "", ErrNoWebsite
}
