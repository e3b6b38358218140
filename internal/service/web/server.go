package web

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"proxyist/internal/metrics"
	"proxyist/internal/shared/logger"
	"proxyist/internal/shared/types"
)

// basicAuthMiddleware 检查 user 和 password 是否已配置。
// 如果配置了，它将强制执行 HTTP Basic Authentication。
func basicAuthMiddleware(next http.Handler, user, pass string) http.Handler {
	// 如果用户名或密码未设置，则不启用认证，直接返回原始处理器
	if user == "" || pass == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized.\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewMux builds the routing table for the proxy list API.
func NewMux(cfg types.WebConf, provider ProxyProvider) *http.ServeMux {
	handler := NewHandler(provider)
	mux := http.NewServeMux()

	// --- 认证保护的 API ---
	mux.Handle("/api/proxies", basicAuthMiddleware(http.HandlerFunc(handler.HandleProxies), cfg.User, cfg.Password))
	mux.Handle("/api/proxies/random", basicAuthMiddleware(http.HandlerFunc(handler.HandleRandom), cfg.User, cfg.Password))
	mux.Handle("/api/proxies/cached", basicAuthMiddleware(http.HandlerFunc(handler.HandleCached), cfg.User, cfg.Password))

	// 公开的状态与指标
	mux.HandleFunc("/api/status", handler.HandleStatus)
	mux.Handle("/metrics", metrics.Handler())

	return mux
}

// StartServer 在后台启动 HTTP API, 返回的 *http.Server 可用于 Shutdown。
func StartServer(wg *sync.WaitGroup, cfg types.WebConf, provider ProxyProvider) (*http.Server, error) {
	l := logger.WithComponent("WebServer")
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("web API is disabled (port is %d)", cfg.Port)
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: NewMux(cfg, provider)}
	l.Info().Msgf("Proxy API is listening on http://%s", addr)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error().Err(err).Msg("Web server error.")
		}
		l.Info().Msg("Web server stopped.")
	}()
	return srv, nil
}
