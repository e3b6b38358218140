package scraper

import (
	"bytes"
	"context"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"
	"proxyist/proxypool/model"
)

// CollyScraper 使用 colly 抓取同一页面, 解析逻辑与 FreeProxyListScraper 共用。
type CollyScraper struct {
	opts *options
}

// NewCollyScraper 创建一个新的 CollyScraper 实例。
func NewCollyScraper(opts ...Option) *CollyScraper {
	return &CollyScraper{opts: newOptions(opts)}
}

// Name 返回抓取器的名称。
func (s *CollyScraper) Name() string {
	return "free-proxy-list.net/colly"
}

// newCollector 每次抓取都新建, 避免回调在多次 Scrape 之间累积。
func (s *CollyScraper) newCollector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(s.opts.userAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
		// 状态码由 OnResponse 自行判断, 否则 colly 会把 203-299 也当作错误。
		colly.ParseHTTPErrorResponse(),
	)
	c.SetClient(s.opts.httpClient)
	return c
}

// Scrape 执行抓取操作。
func (s *CollyScraper) Scrape(ctx context.Context, page int) ([]*model.ProxyRecord, error) {
	return observe(s.Name(), page, func(l zerolog.Logger) ([]*model.ProxyRecord, error) {
		return s.fetch(ctx, l)
	})
}

func (s *CollyScraper) fetch(ctx context.Context, l zerolog.Logger) ([]*model.ProxyRecord, error) {
	var proxies []*model.ProxyRecord
	var scrapeErr error
	url := s.opts.url

	c := s.newCollector(ctx)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode < 200 || r.StatusCode > 299 {
			scrapeErr = &NetworkError{Source: s.Name(), URL: url, StatusCode: r.StatusCode}
			return
		}
		proxies, scrapeErr = parseDocument(s.Name(), bytes.NewReader(r.Body), s.opts.layout)
	})

	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = &NetworkError{Source: s.Name(), URL: url, Err: err}
	})

	l.Debug().Str("url", url).Msg("Visiting page...")
	if err := c.Visit(url); err != nil && scrapeErr == nil {
		scrapeErr = &NetworkError{Source: s.Name(), URL: url, Err: err}
	}
	c.Wait()

	if scrapeErr != nil {
		return nil, scrapeErr
	}
	if proxies == nil {
		proxies = make([]*model.ProxyRecord, 0)
	}
	return proxies, nil
}
