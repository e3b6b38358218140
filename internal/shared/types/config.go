package types

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// SourceConf 描述唯一的代理列表数据源以及抓取方式。
type SourceConf struct {
	URL            string `ini:"url"`
	Engine         string `ini:"engine"` // 抓取引擎: "http" (默认) 或 "colly"
	UserAgent      string `ini:"user_agent"`
	TimeoutSeconds int    `ini:"timeout_seconds"` // 0 表示不设置客户端超时
}

// PoolConf 包含访问层的行为开关
type PoolConf struct {
	// StrictRandom 为 true 时, Random 使用 [0, len) 的正确下标范围,
	// 否则保留旧版本的 +1 偏移。
	StrictRandom bool `ini:"strict_random"`
}

// WebConf 包含 HTTP API 的配置
type WebConf struct {
	Port     int    `ini:"port"`
	User     string `ini:"user"`
	Password string `ini:"password"`
}

// Config 是 proxyist 的统一配置结构体
type Config struct {
	LogConf    `ini:"log"`
	SourceConf `ini:"source"`
	PoolConf   `ini:"pool"`
	WebConf    `ini:"web"`
}

const (
	DefaultSourceURL      = "https://www.free-proxy-list.net"
	DefaultEngine         = "http"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"
	DefaultTimeoutSeconds = 20
	DefaultWebPort        = 8090
)

// DefaultConfig returns the configuration used when no ini file is present.
func DefaultConfig() *Config {
	return &Config{
		LogConf: LogConf{Level: "info"},
		SourceConf: SourceConf{
			URL:            DefaultSourceURL,
			Engine:         DefaultEngine,
			UserAgent:      DefaultUserAgent,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		WebConf: WebConf{Port: DefaultWebPort},
	}
}
