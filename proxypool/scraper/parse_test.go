package scraper

import (
	"errors"
	"os"
	"strings"
	"testing"

	"proxyist/proxypool/model"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/free_proxy_list.html")
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return string(data)
}

func TestParseDocument_Fixture(t *testing.T) {
	proxies, err := ParseDocument(strings.NewReader(loadFixture(t)), FreeProxyListLayout)
	if err != nil {
		t.Fatalf("ParseDocument() returned an error: %v", err)
	}
	if len(proxies) != 2 {
		t.Fatalf("Expected 2 proxies, but got %d", len(proxies))
	}

	first := proxies[0]
	if first.IP != "203.0.113.10" || first.Port != "8080" || first.CountryCode != "US" {
		t.Errorf("Unexpected first record: %+v", first)
	}
	if first.Country != "United States" {
		t.Errorf("Expected country to be stripped to 'United States', but got %q", first.Country)
	}
	if first.Protocol != model.ProtocolHTTPS {
		t.Errorf("Expected protocol https, but got %s", first.Protocol)
	}
	if first.LastUpdate != "5 secs ago" {
		t.Errorf("Expected last update '5 secs ago', but got %q", first.LastUpdate)
	}

	second := proxies[1]
	if second.IP != "198.51.100.7" || second.Protocol != model.ProtocolHTTP {
		t.Errorf("Unexpected second record: %+v", second)
	}

	for _, p := range proxies {
		if p.Country == model.ExcludedCountry {
			t.Errorf("Excluded country leaked into results: %+v", p)
		}
		if want := string(p.Protocol) + "://" + p.IP + ":" + p.Port; p.URL != want {
			t.Errorf("Expected URL %q, but got %q", want, p.URL)
		}
		if p.ConnectTime != 0 || p.UpTime != 1 {
			t.Errorf("Unexpected placeholder values: connect_time=%d up_time=%d", p.ConnectTime, p.UpTime)
		}
	}
}

func TestParseDocument_MissingTable(t *testing.T) {
	_, err := ParseDocument(strings.NewReader("<html><body><p>maintenance</p></body></html>"), FreeProxyListLayout)
	if err == nil {
		t.Fatal("Expected an error for a page without the proxy table, but got nil")
	}
	if !errors.Is(err, ErrParse) {
		t.Errorf("Expected a parse error, but got %v", err)
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("Expected *ParseError, but got %T", err)
	}
}

func TestParseDocument_EmptyTable(t *testing.T) {
	html := `<div class="fpl-list"><table><tbody></tbody></table></div>`
	proxies, err := ParseDocument(strings.NewReader(html), FreeProxyListLayout)
	if err != nil {
		t.Fatalf("ParseDocument() returned an error: %v", err)
	}
	if proxies == nil || len(proxies) != 0 {
		t.Errorf("Expected an empty non-nil slice, but got %v", proxies)
	}
}

func TestParseDocument_ShortRowYieldsEmptyFields(t *testing.T) {
	html := `<div class="fpl-list"><table><tbody><tr><td>10.0.0.1</td><td>8000</td></tr></tbody></table></div>`
	proxies, err := ParseDocument(strings.NewReader(html), FreeProxyListLayout)
	if err != nil {
		t.Fatalf("ParseDocument() returned an error: %v", err)
	}
	if len(proxies) != 1 {
		t.Fatalf("Expected 1 proxy, but got %d", len(proxies))
	}
	p := proxies[0]
	if p.Country != "" || p.CountryCode != "" || p.LastUpdate != "" {
		t.Errorf("Expected missing cells to be empty, but got %+v", p)
	}
	if p.Protocol != model.ProtocolHTTP {
		t.Errorf("Expected a missing https flag to map to http, but got %s", p.Protocol)
	}
	if p.URL != "http://10.0.0.1:8000" {
		t.Errorf("Unexpected URL %q", p.URL)
	}
}

func TestParseDocument_CustomLayout(t *testing.T) {
	layout := ColumnLayout{
		TableSelector: "table#proxies",
		RowSelector:   "table#proxies tr",
		IP:            1,
		Port:          2,
		CountryCode:   3,
		Country:       4,
		HTTPS:         0,
		LastUpdate:    5,
	}
	html := `<table id="proxies"><tr><td>yes</td><td>10.1.1.1</td><td>443</td><td>FR</td><td>France</td><td>now</td></tr></table>`

	proxies, err := ParseDocument(strings.NewReader(html), layout)
	if err != nil {
		t.Fatalf("ParseDocument() returned an error: %v", err)
	}
	if len(proxies) != 1 {
		t.Fatalf("Expected 1 proxy, but got %d", len(proxies))
	}
	if proxies[0].URL != "https://10.1.1.1:443" || proxies[0].Country != "France" {
		t.Errorf("Unexpected record: %+v", proxies[0])
	}
}
