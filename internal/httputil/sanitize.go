package httputil

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// maxURLLength bounds URLs accepted from the command line or a bridge.
const maxURLLength = 4096

// ValidateURL checks that a URL is well-formed and uses HTTPS.
func ValidateURL(rawURL string) error {
	if len(rawURL) > maxURLLength {
		return fmt.Errorf("URL too long: %d characters", len(rawURL))
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("only HTTPS URLs are allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// NormalizePageURL returns the canonical form of a page URL used as a
// record identity: surrounding space trimmed, scheme and host lowercased,
// fragment dropped. Both http and https pages are accepted.
func NormalizePageURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(rawURL) > maxURLLength {
		return "", fmt.Errorf("URL too long: %d characters", len(rawURL))
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("malformed URL: %w", err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL has no host")
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// SanitizeField strips tabs, newlines and other control characters so a
// value can be stored in one field of a line-oriented file.
func SanitizeField(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
