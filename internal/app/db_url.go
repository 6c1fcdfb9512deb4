package app

import (
	"net/url"
	"strings"
)

const binaryParametersKey = "binary_parameters"

// normalizeDBURL turns on lib/pq binary_parameters so queries avoid unnamed
// prepared statements, which transaction-pooling proxies cannot route. An
// explicit value in the DSN is kept.
func normalizeDBURL(raw string, binaryParameters bool) string {
	if !binaryParameters {
		return raw
	}

	if !isURLDSN(raw) {
		if _, ok := keywordValue(raw, binaryParametersKey); ok {
			return raw
		}
		return strings.TrimSpace(raw) + " " + binaryParametersKey + "=yes"
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := parsed.Query()
	if query.Get(binaryParametersKey) != "" {
		return raw
	}
	query.Set(binaryParametersKey, "yes")
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// dbNameFromURL reads the database name from either DSN form, for span
// attributes.
func dbNameFromURL(raw string) string {
	if isURLDSN(raw) {
		parsed, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}

	name, _ := keywordValue(raw, "dbname")
	return name
}

func isURLDSN(raw string) bool {
	raw = strings.TrimSpace(raw)
	return strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://")
}

func keywordValue(dsn, key string) (string, bool) {
	for _, token := range strings.Fields(dsn) {
		k, v, ok := strings.Cut(token, "=")
		if !ok || k != key {
			continue
		}
		v = strings.Trim(strings.TrimSpace(v), `"'`)
		return v, v != ""
	}
	return "", false
}
