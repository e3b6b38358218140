package scraper

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"proxyist/proxypool/model"
)

// FreeProxyListScraper 使用 net/http + goquery 抓取 free-proxy-list.net。
type FreeProxyListScraper struct {
	opts *options
}

// NewFreeProxyListScraper 创建一个新的实例
func NewFreeProxyListScraper(opts ...Option) *FreeProxyListScraper {
	return &FreeProxyListScraper{opts: newOptions(opts)}
}

func (s *FreeProxyListScraper) Name() string {
	return "free-proxy-list.net"
}

func (s *FreeProxyListScraper) Scrape(ctx context.Context, page int) ([]*model.ProxyRecord, error) {
	return observe(s.Name(), page, func(l zerolog.Logger) ([]*model.ProxyRecord, error) {
		return s.fetch(ctx, l)
	})
}

func (s *FreeProxyListScraper) fetch(ctx context.Context, l zerolog.Logger) ([]*model.ProxyRecord, error) {
	url := s.opts.url

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Source: s.Name(), URL: url, Err: err}
	}
	req.Header.Set("User-Agent", s.opts.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	l.Debug().Str("url", url).Msg("Visiting page...")
	resp, err := s.opts.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Source: s.Name(), URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Source: s.Name(), URL: url, StatusCode: resp.StatusCode}
	}

	return parseDocument(s.Name(), resp.Body, s.opts.layout)
}
