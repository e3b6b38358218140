package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"proxyist/internal/shared/logger"
	"proxyist/proxypool/model"
	"proxyist/proxypool/scraper"
)

// ProxyProvider defines the interface that the web handler uses to reach the proxy list.
// This decouples the web package from the proxypool package.
type ProxyProvider interface {
	Get(ctx context.Context) ([]*model.ProxyRecord, error)
	GetByCountryCode(ctx context.Context, code string) ([]*model.ProxyRecord, error)
	GetByProtocol(ctx context.Context, protocol model.Protocol) ([]*model.ProxyRecord, error)
	Random(ctx context.Context) (*model.ProxyRecord, error)
	RandomByCountryCode(ctx context.Context, code string) (*model.ProxyRecord, error)
	RandomByProtocol(ctx context.Context, protocol model.Protocol) (*model.ProxyRecord, error)
	RandomFromCache(ctx context.Context) (*model.ProxyRecord, error)
	CacheLen() int
}

type Handler struct {
	provider ProxyProvider
}

func NewHandler(provider ProxyProvider) *Handler {
	return &Handler{provider: provider}
}

// StatusResponse 是 /api/status 的返回结构
type StatusResponse struct {
	CacheSize int `json:"cache_size"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// listFilter 是从查询参数中解析出的过滤条件
type listFilter struct {
	country  string
	protocol model.Protocol
}

func parseFilter(r *http.Request) (listFilter, error) {
	q := r.URL.Query()
	f := listFilter{country: strings.TrimSpace(q.Get("country"))}
	if raw := q.Get("protocol"); raw != "" {
		p, err := model.ParseProtocol(raw)
		if err != nil {
			return f, err
		}
		f.protocol = p
	}
	return f, nil
}

// HandleProxies 处理 GET /api/proxies?country=&protocol= 请求
func (h *Handler) HandleProxies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var proxies []*model.ProxyRecord
	switch {
	case f.country != "":
		proxies, err = h.provider.GetByCountryCode(r.Context(), f.country)
		if err == nil && f.protocol != "" {
			proxies = filterProtocol(proxies, f.protocol)
		}
	case f.protocol != "":
		proxies, err = h.provider.GetByProtocol(r.Context(), f.protocol)
	default:
		proxies, err = h.provider.Get(r.Context())
	}
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proxies)
}

// HandleRandom 处理 GET /api/proxies/random?country=|protocol= 请求
func (h *Handler) HandleRandom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if f.country != "" && f.protocol != "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "use either country or protocol, not both"})
		return
	}

	var proxy *model.ProxyRecord
	switch {
	case f.country != "":
		proxy, err = h.provider.RandomByCountryCode(r.Context(), f.country)
	case f.protocol != "":
		proxy, err = h.provider.RandomByProtocol(r.Context(), f.protocol)
	default:
		proxy, err = h.provider.Random(r.Context())
	}
	h.writeProxy(w, proxy, err)
}

// HandleCached 处理 GET /api/proxies/cached 请求
func (h *Handler) HandleCached(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	proxy, err := h.provider.RandomFromCache(r.Context())
	h.writeProxy(w, proxy, err)
}

// HandleStatus 处理 GET /api/status 请求
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{CacheSize: h.provider.CacheLen()})
}

func (h *Handler) writeProxy(w http.ResponseWriter, proxy *model.ProxyRecord, err error) {
	if err != nil {
		writeFetchError(w, err)
		return
	}
	if proxy == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no proxy available"})
		return
	}
	writeJSON(w, http.StatusOK, proxy)
}

func writeFetchError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, scraper.ErrNetwork) || errors.Is(err, scraper.ErrParse) {
		status = http.StatusBadGateway
	}
	l := logger.WithComponent("WebServer")
	l.Warn().Err(err).Int("status", status).Msg("Proxy list request failed.")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func filterProtocol(proxies []*model.ProxyRecord, protocol model.Protocol) []*model.ProxyRecord {
	out := make([]*model.ProxyRecord, 0, len(proxies))
	for _, p := range proxies {
		if p.Protocol == protocol {
			out = append(out, p)
		}
	}
	return out
}
