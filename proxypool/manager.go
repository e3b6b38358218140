package proxypool

import (
	"context"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"proxyist/internal/shared/logger"
	"proxyist/proxypool/cache"
	"proxyist/proxypool/model"
	"proxyist/proxypool/scraper"
)

// legacyRandomOffset 是旧版 random() 在随机下标上额外加的 1。
// 它会让最后一个下标越界 (结果为 nil), 且永远取不到第一条记录。
const legacyRandomOffset = 1

// Manager 是代理列表的访问层: 过滤、随机选择以及可耗尽的缓存。
// 除 RandomFromCache 外, 每个方法都会重新抓取一次。
type Manager struct {
	scraper      scraper.Scraper
	cache        *cache.Pool
	intn         func(int) int
	strictRandom bool
	pages        []int
}

// Option configures a Manager.
type Option func(*Manager)

// WithIntn replaces the random index source, mainly for tests.
func WithIntn(intn func(int) int) Option {
	return func(m *Manager) { m.intn = intn }
}

// WithStrictRandom makes Random draw over [0, len) instead of the legacy offset.
func WithStrictRandom(strict bool) Option {
	return func(m *Manager) { m.strictRandom = strict }
}

// WithPages sets the pages Get fans out over. The source has a single page,
// so the default is []int{1}.
func WithPages(pages ...int) Option {
	return func(m *Manager) { m.pages = pages }
}

// New 创建并初始化访问层。
func New(s scraper.Scraper, opts ...Option) *Manager {
	m := &Manager{
		scraper: s,
		cache:   cache.NewPool(),
		intn:    rand.IntN,
		pages:   []int{1},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FetchProxiesList 抓取一次代理列表。page 不影响结果。
func (m *Manager) FetchProxiesList(ctx context.Context, page int) ([]*model.ProxyRecord, error) {
	return m.scraper.Scrape(ctx, page)
}

// Get 并发抓取所有配置的页面并按页面顺序拼接结果。
func (m *Manager) Get(ctx context.Context) ([]*model.ProxyRecord, error) {
	results := make([][]*model.ProxyRecord, len(m.pages))

	g, gctx := errgroup.WithContext(ctx)
	for i, page := range m.pages {
		g.Go(func() error {
			proxies, err := m.FetchProxiesList(gctx, page)
			if err != nil {
				return err
			}
			results[i] = proxies
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]*model.ProxyRecord, 0)
	for _, proxies := range results {
		all = append(all, proxies...)
	}
	return all, nil
}

// GetByCountryCode 返回 CountryCode 与 code 完全相同的记录。
func (m *Manager) GetByCountryCode(ctx context.Context, code string) ([]*model.ProxyRecord, error) {
	all, err := m.Get(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(p *model.ProxyRecord) bool { return p.CountryCode == code }), nil
}

// GetByProtocol 返回使用指定协议的记录。
func (m *Manager) GetByProtocol(ctx context.Context, protocol model.Protocol) ([]*model.ProxyRecord, error) {
	all, err := m.Get(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(p *model.ProxyRecord) bool { return p.Protocol == protocol }), nil
}

// Random 随机返回一条记录。
//
// 默认保留旧版的下标偏移 (intn(len)+1): 只有一条记录时总是返回 nil,
// 多条记录时第一条永远不会被选中。WithStrictRandom(true) 使用正确的范围。
func (m *Manager) Random(ctx context.Context) (*model.ProxyRecord, error) {
	all, err := m.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	i := m.intn(len(all))
	if !m.strictRandom {
		i += legacyRandomOffset
	}
	if i >= len(all) {
		l := logger.WithComponent("ProxyPool/Manager")
		l.Debug().
			Int("index", i).Int("count", len(all)).
			Msg("Random index is out of range, returning no proxy.")
		return nil, nil
	}
	return all[i], nil
}

// RandomByCountryCode 在指定国家的记录中随机返回一条, 没有匹配时返回 nil。
func (m *Manager) RandomByCountryCode(ctx context.Context, code string) (*model.ProxyRecord, error) {
	proxies, err := m.GetByCountryCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return m.pick(proxies), nil
}

// RandomByProtocol 在指定协议的记录中随机返回一条, 没有匹配时返回 nil。
func (m *Manager) RandomByProtocol(ctx context.Context, protocol model.Protocol) (*model.ProxyRecord, error) {
	proxies, err := m.GetByProtocol(ctx, protocol)
	if err != nil {
		return nil, err
	}
	return m.pick(proxies), nil
}

// RandomFromCache 从缓存中取出一条记录, 取出的记录不会再次返回。
// 缓存为空时重新抓取并返回新列表的第一条; 之后的抽取是均匀随机的。
func (m *Manager) RandomFromCache(ctx context.Context) (*model.ProxyRecord, error) {
	return m.cache.Draw(ctx, m.Get, m.intn)
}

// CacheLen returns the number of records left in the cache.
func (m *Manager) CacheLen() int {
	return m.cache.Len()
}

func (m *Manager) pick(proxies []*model.ProxyRecord) *model.ProxyRecord {
	if len(proxies) == 0 {
		return nil
	}
	return proxies[m.intn(len(proxies))]
}

func filter(proxies []*model.ProxyRecord, keep func(*model.ProxyRecord) bool) []*model.ProxyRecord {
	out := make([]*model.ProxyRecord, 0)
	for _, p := range proxies {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
