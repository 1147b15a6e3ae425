package httpapi

import (
	"net"
	"net/http"
	"strings"
)

func resolveClientIP(r *http.Request) string {
	candidates := []string{
		r.Header.Get("Fly-Client-IP"),
		r.Header.Get("X-Forwarded-For"),
		r.Header.Get("X-Real-IP"),
		r.RemoteAddr,
	}

	for _, candidate := range candidates {
		if ip := normalizeIP(candidate); ip != "" {
			return ip
		}
	}

	return ""
}

// clientKey identifies the caller for rate limiting: the user when known, the
// client address otherwise.
func clientKey(r *http.Request) string {
	if userID, ok := userIDFromContext(r.Context()); ok {
		return "user:" + userID
	}
	if ip := resolveClientIP(r); ip != "" {
		return "ip:" + ip
	}
	return "unknown"
}

func normalizeIP(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if strings.Contains(value, ",") {
		value = strings.TrimSpace(strings.Split(value, ",")[0])
	}

	if host, _, err := net.SplitHostPort(value); err == nil {
		value = strings.TrimSpace(host)
	}

	parsed := net.ParseIP(value)
	if parsed == nil {
		return ""
	}
	return parsed.String()
}
