package app

import (
	"net/url"
	"strings"
)

// pgx-style flag from older deployments; lib/pq would forward it to the server as a
// runtime parameter and the connection would be refused.
const legacyPreparedBinaryParam = "disable_prepared_binary_result"

// normalizeDBURL prepares DB_URL for lib/pq. With binaryParameters set, queries are
// sent unnamed with binary parameters, which keeps them working behind a transaction
// pooler. applicationName is only a fallback; a value in the URL wins.
func normalizeDBURL(raw string, binaryParameters bool, applicationName string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return normalizeKeywordDSN(trimmed, binaryParameters, applicationName)
	}

	query := parsed.Query()
	query.Del(legacyPreparedBinaryParam)
	if binaryParameters && query.Get("binary_parameters") == "" {
		query.Set("binary_parameters", "yes")
	}
	if name := strings.TrimSpace(applicationName); name != "" && query.Get("fallback_application_name") == "" {
		query.Set("fallback_application_name", name)
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

func normalizeKeywordDSN(raw string, binaryParameters bool, applicationName string) string {
	tokens := make([]string, 0, 8)
	has := map[string]bool{}
	for _, token := range strings.Fields(raw) {
		key, _, _ := strings.Cut(token, "=")
		if key == legacyPreparedBinaryParam {
			continue
		}
		has[key] = true
		tokens = append(tokens, token)
	}
	if binaryParameters && !has["binary_parameters"] {
		tokens = append(tokens, "binary_parameters=yes")
	}
	if name := strings.TrimSpace(applicationName); name != "" && !has["fallback_application_name"] && !strings.ContainsAny(name, " '\\") {
		tokens = append(tokens, "fallback_application_name="+name)
	}
	return strings.Join(tokens, " ")
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
