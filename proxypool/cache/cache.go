package cache

import (
	"context"
	"sync"

	"proxyist/internal/metrics"
	"proxyist/internal/shared/logger"
	"proxyist/proxypool/model"
)

// RefillFunc 在池为空时提供一批新的记录, 通常是一次完整抓取。
type RefillFunc func(ctx context.Context) ([]*model.ProxyRecord, error)

// Pool 是一个可耗尽的记录池: 每次抽取移除一条, 为空时整体重新填充。
// 所有读-改-写都在 mu 保护下完成。
type Pool struct {
	mu      sync.Mutex
	records []*model.ProxyRecord
}

// NewPool 创建一个空的 Pool。
func NewPool() *Pool {
	return &Pool{}
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

// Draw 从池中取出一条记录。
//
// 池为空时调用 refill 并返回新内容的第一条 (不是随机的);
// 否则按 intn(len) 随机取出一条。refill 期间持有锁, 并发调用者不会重复填充。
// refill 失败时池保持不变并返回错误; refill 结果为空时返回 (nil, nil)。
func (p *Pool) Draw(ctx context.Context, refill RefillFunc, intn func(int) int) (*model.ProxyRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.records) == 0 {
		l := logger.WithComponent("ProxyPool/Cache")
		l.Debug().Msg("Cache is empty, refilling...")

		records, err := refill(ctx)
		if err != nil {
			return nil, err
		}
		p.refillLocked(records)
		metrics.CacheRefills.Inc()
		l.Info().Int("count", len(records)).Msg("Cache refilled.")

		r, _ := p.takeLocked(0)
		return r, nil
	}

	r, _ := p.takeLocked(intn(len(p.records)))
	return r, nil
}

// refillLocked 整体替换池中的内容, 调用方必须持有 mu。
func (p *Pool) refillLocked(records []*model.ProxyRecord) {
	p.records = make([]*model.ProxyRecord, len(records))
	copy(p.records, records)
	metrics.CacheSize.Set(float64(len(p.records)))
}

// takeLocked 移除并返回第 i 条记录, 下标越界时返回 false。
func (p *Pool) takeLocked(i int) (*model.ProxyRecord, bool) {
	if i < 0 || i >= len(p.records) {
		return nil, false
	}
	r := p.records[i]
	p.records = append(p.records[:i], p.records[i+1:]...)
	metrics.CacheSize.Set(float64(len(p.records)))
	return r, true
}
