package httpapi

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Edge proxies in front of the API, most trusted first.
var (
	clientIPHeaders      = []string{"Fly-Client-IP", "X-Forwarded-For", "X-Real-IP"}
	clientCountryHeaders = []string{"Fly-Client-Country", "CF-IPCountry", "X-Vercel-IP-Country", "CloudFront-Viewer-Country"}
)

const unknownCountry = "ZZ"

type clientInfo struct {
	IP      string
	Country string
}

func resolveClient(r *http.Request) clientInfo {
	info := clientInfo{Country: unknownCountry}

	for _, header := range clientIPHeaders {
		if ip, ok := parseClientIP(r.Header.Get(header)); ok {
			info.IP = ip
			break
		}
	}
	if info.IP == "" {
		info.IP, _ = parseClientIP(r.RemoteAddr)
	}

	for _, header := range clientCountryHeaders {
		if code, ok := parseCountryCode(r.Header.Get(header)); ok {
			info.Country = code
			break
		}
	}

	return info
}

func (c clientInfo) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("client.geo.country", c.Country)}
	if c.IP != "" {
		attrs = append(attrs, attribute.String("client.address", c.IP))
	}
	return attrs
}

// parseClientIP takes the first hop of a forwarded list and drops any port.
func parseClientIP(raw string) (string, bool) {
	first, _, _ := strings.Cut(raw, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return "", false
	}
	if host, _, err := net.SplitHostPort(first); err == nil {
		first = host
	}

	addr, err := netip.ParseAddr(strings.Trim(first, "[]"))
	if err != nil {
		return "", false
	}
	return addr.Unmap().String(), true
}

func parseCountryCode(raw string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 2 || code == "XX" {
		return "", false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", false
		}
	}
	return code, true
}
