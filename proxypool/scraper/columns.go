package scraper

// ColumnLayout 描述代理表格的位置以及每个字段所在的列下标。
// 列按位置读取而不是按表头名称读取, 页面布局变化时只需要修改这里。
type ColumnLayout struct {
	// TableSelector 必须至少匹配一个元素, 否则视为 ParseError。
	TableSelector string
	// RowSelector 选中每一行代理数据。
	RowSelector string

	IP          int
	Port        int
	CountryCode int
	Country     int
	HTTPS       int
	LastUpdate  int
}

// FreeProxyListLayout is the current layout of free-proxy-list.net.
var FreeProxyListLayout = ColumnLayout{
	TableSelector: "div.fpl-list table",
	RowSelector:   "div.fpl-list table tbody > tr",
	IP:            0,
	Port:          1,
	CountryCode:   2,
	Country:       3,
	HTTPS:         8,
	LastUpdate:    9,
}
