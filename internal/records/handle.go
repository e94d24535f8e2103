package records

import (
	"net/url"
	"regexp"
	"strings"
)

// HandleRegex accepts the account names X itself allows.
var HandleRegex = regexp.MustCompile(`^[A-Za-z0-9_]{1,15}$`)

// IsXHost reports whether a hostname is one X serves profiles on.
func IsXHost(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	return host == "x.com" || host == "twitter.com"
}

// ExtractHandle normalizes a hand-entered handle value, which may be
// a bare handle, an @-prefixed handle or a full profile URL.
func ExtractHandle(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	if strings.Contains(value, "://") {
		link, err := url.Parse(value)
		if err != nil {
			return "", false
		}
		if !IsXHost(link.Hostname()) {
			return "", false
		}
		segments := strings.Split(strings.Trim(link.Path, "/"), "/")
		value = segments[0]
	}

	value = strings.TrimPrefix(value, "@")
	if !HandleRegex.MatchString(value) {
		return "", false
	}
	return value, true
}
