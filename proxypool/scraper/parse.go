package scraper

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"proxyist/proxypool/model"
)

// 页面单元格中夹杂的制表符和换行符
var cellNoise = strings.NewReplacer("\t", "", "\n", "")

// ParseDocument 解析 HTML 文档中的代理表格, 按文档顺序返回记录。
// 国家为 model.ExcludedCountry 的行会被丢弃。缺失的单元格得到空字符串而不是错误。
func ParseDocument(r io.Reader, layout ColumnLayout) ([]*model.ProxyRecord, error) {
	return parseDocument("document", r, layout)
}

func parseDocument(source string, r io.Reader, layout ColumnLayout) ([]*model.ProxyRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Source: source, Reason: "failed to parse HTML", Err: err}
	}

	if doc.Find(layout.TableSelector).Length() == 0 {
		return nil, &ParseError{Source: source, Reason: "proxy table '" + layout.TableSelector + "' not found"}
	}

	proxies := make([]*model.ProxyRecord, 0)
	doc.Find(layout.RowSelector).Each(func(_ int, sel *goquery.Selection) {
		if p := parseRow(sel.Find("td"), layout); !p.Excluded() {
			proxies = append(proxies, p)
		}
	})
	return proxies, nil
}

func parseRow(cells *goquery.Selection, layout ColumnLayout) *model.ProxyRecord {
	cell := func(i int) string {
		return cells.Eq(i).Text()
	}

	country := cellNoise.Replace(cell(layout.Country))
	httpsFlag := cellNoise.Replace(cell(layout.HTTPS))

	return model.NewProxyRecord(
		cell(layout.IP),
		cell(layout.Port),
		country,
		cell(layout.CountryCode),
		model.ProtocolFromHTTPSFlag(httpsFlag),
		cell(layout.LastUpdate),
	)
}
