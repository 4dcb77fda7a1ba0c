// Package scraper imports job listings from a job board's HTML pages.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"

	"job-matcher/internal/config"
	"job-matcher/internal/domain/job"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Target describes one job board. ListURL may contain a %d page placeholder.
type Target struct {
	ListURL          string
	LinkSelector     string
	TitleSelector    string
	LocationSelector string
	CompanySelector  string
	BodySelector     string
	// Company is used when CompanySelector is empty or matches nothing.
	Company string
	Pages   int
}

type listItem struct {
	Link  string
	Title string
}

type detail struct {
	Title       string
	Location    string
	Company     string
	Description string
	Err         error
}

type Importer struct {
	cfg    config.ImportConfig
	logger *zap.Logger
}

func NewImporter(cfg config.ImportConfig, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Importer{cfg: cfg, logger: logger}
}

// Scrape collects job links from the listing pages, then visits each link and
// extracts the posting. Pages that fail are logged and skipped.
func (i *Importer) Scrape(ctx context.Context, t Target) ([]job.NewJob, error) {
	t, err := withDefaults(t)
	if err != nil {
		return nil, err
	}

	var items []listItem
	seen := map[string]struct{}{}
	for page := 1; page <= t.Pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		listURL := t.ListURL
		if strings.Contains(listURL, "%d") {
			listURL = fmt.Sprintf(listURL, page)
		}

		found, err := i.scrapeListingPage(t, listURL)
		if err != nil {
			i.logger.Warn("listing page failed", zap.String("url", listURL), zap.Int("page", page), zap.Error(err))
			continue
		}
		for _, it := range found {
			if _, ok := seen[it.Link]; ok {
				continue
			}
			seen[it.Link] = struct{}{}
			items = append(items, it)
		}
	}
	if i.cfg.MaxJobs > 0 && len(items) > i.cfg.MaxJobs {
		items = items[:i.cfg.MaxJobs]
	}
	if len(items) == 0 {
		return nil, nil
	}

	details, err := i.scrapeDetailPages(ctx, t, items)
	if err != nil {
		return nil, err
	}

	out := make([]job.NewJob, 0, len(items))
	for _, it := range items {
		d := details[it.Link]
		if d.Err != nil {
			i.logger.Warn("job page failed", zap.String("url", it.Link), zap.Error(d.Err))
			continue
		}
		title := pickNonEmpty(d.Title, it.Title)
		if title == "" || d.Description == "" {
			i.logger.Debug("job page has no title or description", zap.String("url", it.Link))
			continue
		}
		link := it.Link
		out = append(out, job.NewJob{
			Title:       title,
			Description: d.Description,
			Location:    optional(d.Location),
			Company:     optional(pickNonEmpty(d.Company, t.Company)),
			SourceURL:   &link,
		})
	}

	i.logger.Info("catalog scraped",
		zap.String("list_url", t.ListURL),
		zap.Int("links", len(items)),
		zap.Int("jobs", len(out)),
	)
	return out, nil
}

func (i *Importer) newCollector(rawURL string, opts ...colly.CollectorOption) *colly.Collector {
	opts = append(opts, colly.UserAgent(i.cfg.UserAgent))
	if host := hostFromURL(rawURL); host != "" {
		opts = append(opts, colly.AllowedDomains(host))
	}
	c := colly.NewCollector(opts...)
	if i.cfg.RequestTimeout > 0 {
		c.SetRequestTimeout(i.cfg.RequestTimeout)
	}
	_ = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: i.cfg.Workers,
		Delay:       i.cfg.Delay,
		RandomDelay: i.cfg.Delay / 2,
	})
	return c
}

func (i *Importer) scrapeListingPage(t Target, listURL string) ([]listItem, error) {
	c := i.newCollector(listURL)

	items := make([]listItem, 0)
	c.OnHTML(t.LinkSelector, func(e *colly.HTMLElement) {
		href := strings.TrimSpace(e.Attr("href"))
		if href == "" {
			return
		}
		abs := e.Request.AbsoluteURL(href)
		if abs == "" {
			return
		}
		items = append(items, listItem{Link: abs, Title: collapseSpace(e.Text)})
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if err := c.Visit(listURL); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	return items, nil
}

func (i *Importer) scrapeDetailPages(ctx context.Context, t Target, items []listItem) (map[string]detail, error) {
	c := i.newCollector(items[0].Link, colly.Async(true))

	var mu sync.Mutex
	out := make(map[string]detail, len(items))
	update := func(e *colly.HTMLElement, fn func(d *detail)) {
		link := e.Request.Ctx.Get("link")
		mu.Lock()
		d := out[link]
		fn(&d)
		out[link] = d
		mu.Unlock()
	}

	c.OnHTML(t.TitleSelector, func(e *colly.HTMLElement) {
		update(e, func(d *detail) {
			if d.Title == "" {
				d.Title = collapseSpace(e.Text)
			}
		})
	})
	if t.LocationSelector != "" {
		c.OnHTML(t.LocationSelector, func(e *colly.HTMLElement) {
			update(e, func(d *detail) {
				if d.Location == "" {
					d.Location = collapseSpace(e.Text)
				}
			})
		})
	}
	if t.CompanySelector != "" {
		c.OnHTML(t.CompanySelector, func(e *colly.HTMLElement) {
			update(e, func(d *detail) {
				if d.Company == "" {
					d.Company = collapseSpace(e.Text)
				}
			})
		})
	}
	c.OnHTML(t.BodySelector, func(e *colly.HTMLElement) {
		update(e, func(d *detail) {
			if d.Description == "" {
				d.Description = collapseSpace(e.Text)
			}
		})
	})
	c.OnError(func(r *colly.Response, err error) {
		link := r.Ctx.Get("link")
		mu.Lock()
		d := out[link]
		d.Err = err
		out[link] = d
		mu.Unlock()
	})

	for _, it := range items {
		if err := ctx.Err(); err != nil {
			c.Wait()
			return nil, err
		}
		rc := colly.NewContext()
		rc.Put("link", it.Link)
		if err := c.Request("GET", it.Link, nil, rc, nil); err != nil {
			mu.Lock()
			out[it.Link] = detail{Err: err}
			mu.Unlock()
		}
	}
	c.Wait()
	return out, nil
}

func withDefaults(t Target) (Target, error) {
	t.ListURL = strings.TrimSpace(t.ListURL)
	if t.ListURL == "" {
		return t, errors.New("list url is required")
	}
	if _, err := url.ParseRequestURI(strings.ReplaceAll(t.ListURL, "%d", "1")); err != nil {
		return t, fmt.Errorf("invalid list url: %w", err)
	}
	if strings.TrimSpace(t.LinkSelector) == "" {
		t.LinkSelector = "a[href]"
	}
	if strings.TrimSpace(t.TitleSelector) == "" {
		t.TitleSelector = "h1"
	}
	if strings.TrimSpace(t.BodySelector) == "" {
		t.BodySelector = "body"
	}
	if t.Pages <= 0 {
		t.Pages = 1
	}
	return t, nil
}

func hostFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(u.Host); err == nil {
		return h
	}
	return u.Host
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func pickNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
