package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork matches every *NetworkError via errors.Is.
	ErrNetwork = errors.New("network error")
	// ErrParse matches every *ParseError via errors.Is.
	ErrParse = errors.New("parse error")
)

// NetworkError 表示无法从数据源取得页面: DNS、超时、取消或非 2xx 状态码。
type NetworkError struct {
	Source     string
	URL        string
	StatusCode int // 0 表示请求未得到响应
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: received non-2xx status code (%d) from %s", e.Source, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("%s: failed to fetch %s: %v", e.Source, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ParseError 表示响应内容不包含预期的表格结构。
type ParseError struct {
	Source string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
