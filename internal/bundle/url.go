package bundle

import (
	"net/url"
	"strings"
)

// Schemes whose URLs are meaningless without a host.
var hostRequired = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"ws":    true,
	"wss":   true,
}

// IsValidURL reports whether raw is syntactically an absolute URL. Nothing
// beyond structure is checked. Input is taken literally: surrounding
// whitespace is rejected rather than trimmed, and a host-required scheme
// without "//" ("https:example.com") is rejected rather than repaired.
func IsValidURL(raw string) bool {
	if raw == "" || strings.TrimSpace(raw) != raw {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	if hostRequired[strings.ToLower(u.Scheme)] && u.Host == "" {
		return false
	}
	return u.Host != "" || u.Opaque != "" || u.Path != ""
}
