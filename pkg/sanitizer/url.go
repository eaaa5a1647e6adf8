package sanitizer

import (
	"net/url"
	"strings"
)

// NormalizeLink sanitizes a notification deep link. Relative paths are kept
// as-is; absolute URLs are forced to HTTPS with lowercased hosts and
// tracking query parameters stripped. Unparseable links are dropped.
func NormalizeLink(link string) string {
	s := strings.TrimSpace(link)
	if s == "" {
		return ""
	}

	if strings.HasPrefix(s, "/") {
		return s
	}

	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Scheme = "https"
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")

	q := u.Query()
	qClean := url.Values{}
	for k, values := range q {
		if strings.HasPrefix(strings.ToLower(k), "utm_") {
			continue
		}
		for _, v := range values {
			if v != "" {
				qClean.Add(k, v)
			}
		}
	}
	u.RawQuery = qClean.Encode()

	return u.String()
}
