package mobile

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"

	"gopkg.in/ini.v1"
	"proxyist/internal/shared/config"
	"proxyist/internal/shared/logger"
	"proxyist/internal/shared/types"
	"proxyist/proxypool"
	"proxyist/proxypool/model"
	"proxyist/proxypool/scraper"
)

var (
	// 全局变量，用于持有当前为移动端创建的唯一 Manager 实例
	activeManager *proxypool.Manager
	instanceMutex sync.Mutex
)

// recoverToError converts panics into errors, which is safer for CGo boundaries.
func recoverToError(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("go core panic: %v\n\n%s", r, debug.Stack())
	}
}

// Init is the entry point for mobile clients.
// iniContent: the content of a proxyist.ini file, may be empty for defaults.
func Init(iniContent string) (err error) {
	defer recoverToError(&err)

	instanceMutex.Lock()
	defer instanceMutex.Unlock()

	cfg := types.DefaultConfig()
	if iniContent != "" {
		iniFile, err := ini.Load([]byte(iniContent))
		if err != nil {
			return fmt.Errorf("failed to parse ini content: %w", err)
		}
		if err := iniFile.MapTo(cfg); err != nil {
			return fmt.Errorf("failed to map ini content to config struct: %w", err)
		}
	}
	config.ApplyEnv(cfg)

	if err := logger.Init(cfg.LogConf); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	s, err := scraper.New(cfg.SourceConf)
	if err != nil {
		return err
	}
	activeManager = proxypool.New(s, proxypool.WithStrictRandom(cfg.PoolConf.StrictRandom))
	l := logger.WithComponent("Mobile")
	l.Info().Str("engine", s.Name()).Msg("Proxy list initialized for mobile.")
	return nil
}

func current() (*proxypool.Manager, error) {
	instanceMutex.Lock()
	defer instanceMutex.Unlock()
	if activeManager == nil {
		return nil, fmt.Errorf("proxy list is not initialized, call Init first")
	}
	return activeManager, nil
}

// ListJSON returns the proxy list as a JSON array. Empty arguments disable the filter.
func ListJSON(countryCode, protocol string) (result string, err error) {
	defer recoverToError(&err)

	m, err := current()
	if err != nil {
		return "", err
	}

	var protocolFilter model.Protocol
	if protocol != "" {
		if protocolFilter, err = model.ParseProtocol(protocol); err != nil {
			return "", err
		}
	}

	ctx := context.Background()
	var proxies []*model.ProxyRecord
	switch {
	case countryCode != "":
		proxies, err = m.GetByCountryCode(ctx, countryCode)
	case protocolFilter != "":
		proxies, err = m.GetByProtocol(ctx, protocolFilter)
	default:
		proxies, err = m.Get(ctx)
	}
	if err != nil {
		return "", err
	}
	if countryCode != "" && protocolFilter != "" {
		filtered := make([]*model.ProxyRecord, 0, len(proxies))
		for _, r := range proxies {
			if r.Protocol == protocolFilter {
				filtered = append(filtered, r)
			}
		}
		proxies = filtered
	}
	return marshal(proxies)
}

// RandomJSON returns one random proxy as JSON, or an empty string when none is available.
func RandomJSON() (result string, err error) {
	defer recoverToError(&err)

	m, err := current()
	if err != nil {
		return "", err
	}
	p, err := m.Random(context.Background())
	if err != nil || p == nil {
		return "", err
	}
	return marshal(p)
}

// RandomFromCacheJSON draws a proxy from the cache as JSON, or an empty string when none is available.
func RandomFromCacheJSON() (result string, err error) {
	defer recoverToError(&err)

	m, err := current()
	if err != nil {
		return "", err
	}
	p, err := m.RandomFromCache(context.Background())
	if err != nil || p == nil {
		return "", err
	}
	return marshal(p)
}

func marshal(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data), nil
}
