package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
	"proxyist/internal/metrics"
	"proxyist/internal/shared/logger"
	"proxyist/internal/shared/types"
	"proxyist/proxypool/model"
)

const (
	EngineHTTP  = "http"
	EngineColly = "colly"
)

// Scraper 接口定义了从代理源抓取代理信息的行为。
type Scraper interface {
	// Scrape 抓取一次完整的代理列表。page 会被记录但不影响请求,
	// 数据源只有一页。
	Scrape(ctx context.Context, page int) ([]*model.ProxyRecord, error)

	// Name 返回抓取器的名称，用于日志记录。
	Name() string
}

type options struct {
	url        string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	layout     ColumnLayout
}

// Option configures either fetch engine.
type Option func(*options)

func WithURL(url string) Option {
	return func(o *options) { o.url = url }
}

func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithTimeout sets the client timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithHTTPClient replaces the default client; WithTimeout is then ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithLayout(layout ColumnLayout) Option {
	return func(o *options) { o.layout = layout }
}

func newOptions(opts []Option) *options {
	o := &options{
		url:       types.DefaultSourceURL,
		userAgent: types.DefaultUserAgent,
		timeout:   types.DefaultTimeoutSeconds * time.Second,
		layout:    FreeProxyListLayout,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpClient == nil {
		o.httpClient = newHTTPClient(o.timeout)
	}
	return o
}

func newHTTPClient(timeout time.Duration) *http.Client {
	client := &http.Client{Timeout: timeout}
	// cookiejar.New never returns a non-nil error.
	if jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}); err == nil {
		client.Jar = jar
	}
	return client
}

// New 根据 [source] 配置创建对应引擎的抓取器。
func New(cfg types.SourceConf) (Scraper, error) {
	opts := []Option{WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)}
	if cfg.URL != "" {
		opts = append(opts, WithURL(cfg.URL))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, WithUserAgent(cfg.UserAgent))
	}

	switch cfg.Engine {
	case "", EngineHTTP:
		return NewFreeProxyListScraper(opts...), nil
	case EngineColly:
		return NewCollyScraper(opts...), nil
	default:
		return nil, fmt.Errorf("unknown scrape engine %q, expected %q or %q", cfg.Engine, EngineHTTP, EngineColly)
	}
}

// observe 为一次抓取附加 fetch_id 日志上下文并记录指标。
func observe(name string, page int, fetch func(l zerolog.Logger) ([]*model.ProxyRecord, error)) ([]*model.ProxyRecord, error) {
	l := logger.WithComponent("ProxyPool/Scraper").With().
		Str("source", name).
		Str("fetch_id", uuid.NewString()).
		Int("page", page).
		Logger()
	l.Info().Msg("Starting scrape...")

	start := time.Now()
	proxies, err := fetch(l)
	metrics.FetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		result := metrics.ResultNetworkError
		if errors.Is(err, ErrParse) {
			result = metrics.ResultParseError
		}
		metrics.FetchesTotal.WithLabelValues(name, result).Inc()
		l.Warn().Err(err).Msg("Scrape failed.")
		return nil, err
	}

	metrics.FetchesTotal.WithLabelValues(name, metrics.ResultSuccess).Inc()
	metrics.RecordsFetched.Set(float64(len(proxies)))
	l.Info().Int("count", len(proxies)).Dur("elapsed", time.Since(start)).Msg("Scrape finished.")
	return proxies, nil
}
