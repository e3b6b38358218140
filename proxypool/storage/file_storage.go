package storage

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"proxyist/internal/shared/logger"
	"proxyist/proxypool/model"
)

const (
	delimiter = "|"
	numFields = 7 // IP|Port|CountryCode|Country|Protocol|LastUpdate|URL
)

// Exporter 接口定义了将一次抓取结果导出的行为。只写不读。
type Exporter interface {
	Save(proxies []*model.ProxyRecord) error
}

// FileStorage 实现了 Exporter 接口，使用纯文本文件导出。
type FileStorage struct {
	filePath string
	mu       sync.Mutex
}

// NewFileStorage 创建一个新的 FileStorage 实例。
func NewFileStorage(filePath string) *FileStorage {
	return &FileStorage{
		filePath: filePath,
	}
}

// Save 将记录按原有顺序写入纯文本文件，覆盖已有内容。
func (fs *FileStorage) Save(proxies []*model.ProxyRecord) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	l := logger.WithComponent("ProxyPool/Storage")

	var sb strings.Builder
	if err := Write(&sb, proxies); err != nil {
		return err
	}

	if err := os.WriteFile(fs.filePath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write export file '%s': %w", fs.filePath, err)
	}

	l.Info().Int("count", len(proxies)).Str("path", fs.filePath).Msg("Successfully exported proxies to file.")
	return nil
}

// Write 将每条记录格式化为一行写入 w。
func Write(w io.Writer, proxies []*model.ProxyRecord) error {
	for _, p := range proxies {
		if _, err := io.WriteString(w, FormatRecord(p)+"\n"); err != nil {
			return fmt.Errorf("failed to write record %s: %w", p.URL, err)
		}
	}
	return nil
}

// FormatRecord 将 ProxyRecord 对象格式化为一行文本。
// 字段中出现的分隔符会被替换为空格。
func FormatRecord(p *model.ProxyRecord) string {
	fields := []string{
		p.IP,
		p.Port,
		p.CountryCode,
		p.Country,
		p.Protocol.String(),
		p.LastUpdate,
		p.URL,
	}
	for i, f := range fields {
		fields[i] = strings.ReplaceAll(f, delimiter, " ")
	}
	return strings.Join(fields, delimiter)
}
