package model

import (
	"fmt"
	"strings"
)

// Protocol 是代理记录的协议，只可能是 http 或 https。
type Protocol string

const (
	ProtocolHTTP  Protocol = "http"
	ProtocolHTTPS Protocol = "https"
)

// ExcludedCountry 的记录在抓取阶段即被丢弃，不可配置。
const ExcludedCountry = "China"

const (
	defaultConnectTime = 0
	defaultUpTime      = 1
)

// ProxyRecord 是从代理列表页面解析出的一行数据。
// 每次抓取都会重新构造，不跨抓取保持身份。
type ProxyRecord struct {
	IP          string   `json:"ip"`
	Port        string   `json:"port"` // 保留原始文本，不解析为整数
	Country     string   `json:"country"`
	CountryCode string   `json:"countryCode"`
	Protocol    Protocol `json:"protocol"`

	// ConnectTime 和 UpTime 仅为兼容旧的数据格式而保留，值固定。
	ConnectTime int `json:"connect_time"`
	UpTime      int `json:"up_time"`

	LastUpdate string `json:"last_update"` // e.g. "5 secs ago"
	URL        string `json:"url"`
}

// NewProxyRecord 构造一条记录并派生 URL。
func NewProxyRecord(ip, port, country, countryCode string, protocol Protocol, lastUpdate string) *ProxyRecord {
	return &ProxyRecord{
		IP:          ip,
		Port:        port,
		Country:     country,
		CountryCode: countryCode,
		Protocol:    protocol,
		ConnectTime: defaultConnectTime,
		UpTime:      defaultUpTime,
		LastUpdate:  lastUpdate,
		URL:         fmt.Sprintf("%s://%s:%s", protocol, ip, port),
	}
}

// ProtocolFromHTTPSFlag 将 "Https" 列的文本映射为协议。只有精确的 "yes" 表示 https。
func ProtocolFromHTTPSFlag(flag string) Protocol {
	if flag == "yes" {
		return ProtocolHTTPS
	}
	return ProtocolHTTP
}

// Valid reports whether p is one of the supported protocols.
func (p Protocol) Valid() bool {
	return p == ProtocolHTTP || p == ProtocolHTTPS
}

func (p Protocol) String() string {
	return string(p)
}

// ParseProtocol parses user supplied protocol text, case-insensitively.
func ParseProtocol(s string) (Protocol, error) {
	p := Protocol(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unsupported protocol %q, expected http or https", s)
	}
	return p, nil
}

// Excluded reports whether the record must be dropped from every result set.
func (r *ProxyRecord) Excluded() bool {
	return r.Country == ExcludedCountry
}
